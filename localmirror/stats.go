package localmirror

import (
	"fmt"
	"path"
	"sort"

	"golang.org/x/exp/maps"
)

// Thresholds past which ValidateHierarchy starts muttering.  Generous on
// purpose; these flag discovery bugs and pathological trees, not normal use.
const (
	deepHierarchyThreshold = 20
	largeFolderThreshold   = 100
)

// TotalFolders counts every node of the tree exactly once, this one
// included.
func (n *HierarchyNode) TotalFolders() int {
	count := 1
	for _, subfolder := range n.Subfolders {
		count += subfolder.TotalFolders()
	}
	return count
}

// TotalDocuments counts documents across the whole subtree.
func (n *HierarchyNode) TotalDocuments() int {
	count := len(n.Documents)
	for _, subfolder := range n.Subfolders {
		count += subfolder.TotalDocuments()
	}
	return count
}

// MaxDepth is the length of the longest folder chain below this node; a
// leaf is depth zero.
func (n *HierarchyNode) MaxDepth() int {
	deepest := 0
	for _, subfolder := range n.Subfolders {
		if d := subfolder.MaxDepth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// EmptyFolders counts leaves that hold neither documents nor subfolders.
func (n *HierarchyNode) EmptyFolders() int {
	count := 0
	if len(n.Documents) == 0 && len(n.Subfolders) == 0 {
		count++
	}
	for _, subfolder := range n.Subfolders {
		count += subfolder.EmptyFolders()
	}
	return count
}

// sortedSubfolderIDs gives a stable iteration order over the children map.
func (n *HierarchyNode) sortedSubfolderIDs() []string {
	ids := maps.Keys(n.Subfolders)
	sort.Strings(ids)
	return ids
}

// ValidateHierarchy looks a completed tree over for things that are probably
// wrong but not wrong enough to fail on.  Advisory only; never an error.
func ValidateHierarchy(root *HierarchyNode) []string {
	issues := []string{}

	if root.TotalDocuments() == 0 && root.TotalFolders() == 1 {
		issues = append(issues, "hierarchy appears to be empty (no documents found)")
	}

	if depth := root.MaxDepth(); depth > deepHierarchyThreshold {
		issues = append(issues, fmt.Sprintf("very deep folder hierarchy detected (depth: %d)", depth))
	}

	checkLargeFolders(root, "", &issues)

	return issues
}

func checkLargeFolders(node *HierarchyNode, parentPath string, issues *[]string) {
	currentPath := path.Join(parentPath, node.Folder.Name)

	if total := len(node.Documents) + len(node.Subfolders); total > largeFolderThreshold {
		*issues = append(*issues, fmt.Sprintf("large folder detected: '%s' has %d items", currentPath, total))
	}

	for _, id := range node.sortedSubfolderIDs() {
		checkLargeFolders(node.Subfolders[id], currentPath, issues)
	}
}
