package localmirror

import "github.com/toothbrush/quip-mirror/quip"

// DocumentPlacement pairs a document with where it lives: the chain of
// remote folder display names from the root (inclusive) down to its parent,
// and -- once resolved against a base directory -- the absolute local path
// it will be written to.
type DocumentPlacement struct {
	Item       quip.Item
	FolderPath []string
	LocalPath  string
}

// Flatten walks a completed tree depth-first and lists every document with
// its remote-hierarchy-relative path.  Documents directly inside a folder
// come before anything in its subfolders; subfolders go in sorted-ID order.
// It's a pure function of the tree, so calling it twice yields the same
// slice.
func Flatten(root *HierarchyNode) []DocumentPlacement {
	placements := []DocumentPlacement{}
	flattenInto(root, nil, &placements)
	return placements
}

func flattenInto(node *HierarchyNode, parentPath []string, out *[]DocumentPlacement) {
	folderPath := make([]string, 0, len(parentPath)+1)
	folderPath = append(folderPath, parentPath...)
	folderPath = append(folderPath, node.Folder.Name)

	for _, doc := range node.Documents {
		*out = append(*out, DocumentPlacement{
			Item:       doc,
			FolderPath: folderPath,
		})
	}

	for _, id := range node.sortedSubfolderIDs() {
		flattenInto(node.Subfolders[id], folderPath, out)
	}
}
