package outline

// ViewState holds transient display flags. It is never part of a Snapshot.
type ViewState struct {
	expanded map[string]bool
}

// NewViewState returns a view state with every folder collapsed.
func NewViewState() *ViewState {
	return &ViewState{expanded: make(map[string]bool)}
}

// ToggleExpanded flips the expanded flag for id and returns the new value.
func (v *ViewState) ToggleExpanded(id string) bool {
	v.expanded[id] = !v.expanded[id]
	if !v.expanded[id] {
		delete(v.expanded, id)
		return false
	}
	return true
}

func (v *ViewState) IsExpanded(id string) bool { return v.expanded[id] }

// Forget drops the flag for an id that no longer exists.
func (v *ViewState) Forget(id string) {
	delete(v.expanded, id)
}

// Visible returns a copy of tree in which collapsed folders keep their own
// row but show no children. The root level is always shown.
func (v *ViewState) Visible(tree *TreeNode) *TreeNode {
	if tree == nil {
		return nil
	}
	return &TreeNode{
		Folders:  v.visibleFolders(tree.Folders),
		Outlines: append([]OutlineTreeNode{}, tree.Outlines...),
	}
}

func (v *ViewState) visibleFolders(folders []*FolderTreeNode) []*FolderTreeNode {
	out := make([]*FolderTreeNode, 0, len(folders))
	for _, f := range folders {
		node := &FolderTreeNode{
			ID:       f.ID,
			Title:    f.Title,
			ParentID: f.ParentID,
			Folders:  []*FolderTreeNode{},
			Outlines: []OutlineTreeNode{},
		}
		if v.IsExpanded(f.ID) {
			node.Folders = v.visibleFolders(f.Folders)
			node.Outlines = append(node.Outlines, f.Outlines...)
		}
		out = append(out, node)
	}
	return out
}
