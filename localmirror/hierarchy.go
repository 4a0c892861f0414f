package localmirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/toothbrush/quip-mirror/quip"
)

// TraversalError means the whole discovery failed: either the root folder's
// listing call broke, or the tree ran past the depth limit.  Per-branch
// failures never surface as one of these; they just drop the branch.
type TraversalError struct {
	FolderID string
	Message  string
	Err      error
}

func (e *TraversalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("localmirror: traversal of %s failed: %s: %v", e.FolderID, e.Message, e.Err)
	}
	return fmt.Sprintf("localmirror: traversal of %s failed: %s", e.FolderID, e.Message)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// HierarchyNode is one folder of the discovered tree.  Each node exclusively
// owns its Subfolders map -- it's a strict tree, never a graph, even when the
// remote side contains reference cycles.  Mutated only during the build
// pass; everything downstream reads it.
type HierarchyNode struct {
	Folder     quip.Item
	Subfolders map[string]*HierarchyNode
	Documents  []quip.Item
}

// traversalState is scoped to a single BuildHierarchy call and threaded
// through the recursion explicitly.  activePath is stack-disciplined: a
// folder ID is present exactly while its subtree is being expanded.
type traversalState struct {
	activePath map[string]bool
	warnings   []string
}

// BuildHierarchy walks the remote tree from rootFolderID and returns the
// discovered hierarchy plus any warnings accumulated on the way (dropped
// subfolders).  Root listing failure and depth overrun are fatal; everything
// else is contained.
func (m *Mirrorer) BuildHierarchy(ctx context.Context, rootFolderID string) (*HierarchyNode, []string, error) {
	m.logf("Starting traversal of folder %s...", rootFolderID)

	st := &traversalState{
		activePath: map[string]bool{},
	}

	root, err := m.traverse(ctx, rootFolderID, 0, st)
	if err != nil {
		var traversalErr *TraversalError
		if errors.As(err, &traversalErr) {
			return nil, nil, err
		}
		return nil, nil, &TraversalError{
			FolderID: rootFolderID,
			Message:  "traversal aborted",
			Err:      err,
		}
	}

	m.logf("Completed traversal of '%s': found %d folders and %d documents.",
		root.Folder.Name, root.TotalFolders(), root.TotalDocuments())

	return root, st.warnings, nil
}

func (m *Mirrorer) traverse(ctx context.Context, folderID string, depth int, st *traversalState) (*HierarchyNode, error) {
	if depth > m.maxDepth() {
		return nil, &TraversalError{
			FolderID: folderID,
			Message:  fmt.Sprintf("maximum traversal depth (%d) exceeded", m.maxDepth()),
		}
	}

	// A folder that is its own ancestor on the current path must not
	// re-enter; a terminal leaf stands in for it.  This is about the
	// *active* path only: the same folder reachable via two sibling
	// branches is traversed independently in each.
	if st.activePath[folderID] {
		m.logf("Circular reference detected for folder %s, inserting placeholder leaf.", folderID)
		return &HierarchyNode{
			Folder: quip.Item{
				ID:   folderID,
				Name: fmt.Sprintf("Circular Reference: %s", folderID),
				Kind: quip.FolderItem,
				URL:  quip.FolderURL(folderID),
			},
			Subfolders: map[string]*HierarchyNode{},
		}, nil
	}

	st.activePath[folderID] = true
	defer delete(st.activePath, folderID)

	listing, err := m.Client.GetFolderContents(ctx, folderID)
	if err != nil {
		// only the root's own listing failure gets to claim that's what
		// happened; deeper failures carry their own folder ID upward.
		if depth == 0 {
			return nil, &TraversalError{
				FolderID: folderID,
				Message:  "couldn't list root folder",
				Err:      err,
			}
		}
		return nil, fmt.Errorf("localmirror: couldn't list folder %s: %w", folderID, err)
	}

	folderName := listing.FolderName
	if folderName == "" {
		folderName = fmt.Sprintf("Folder %s", folderID)
	}

	node := &HierarchyNode{
		Folder: quip.Item{
			ID:   folderID,
			Name: folderName,
			Kind: quip.FolderItem,
			URL:  quip.FolderURL(folderID),
		},
		Subfolders: map[string]*HierarchyNode{},
		Documents:  listing.Documents,
	}

	for _, subfolder := range listing.Folders {
		child, err := m.traverse(ctx, subfolder.ID, depth+1, st)
		if err != nil {
			// One broken branch must not abort discovery of the rest of the
			// tree -- but only remote-client failures are containable.  A
			// depth overrun (TraversalError) or a cancelled context still
			// kills the whole traversal.
			var apiErr *quip.APIError
			if errors.As(err, &apiErr) {
				warning := fmt.Sprintf("skipped subfolder '%s' (%s): %v", subfolder.Name, subfolder.ID, err)
				m.logf("WARNING: %s", warning)
				st.warnings = append(st.warnings, warning)
				continue
			}
			return nil, err
		}
		node.Subfolders[subfolder.ID] = child
	}

	return node, nil
}
