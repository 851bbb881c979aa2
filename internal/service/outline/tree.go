package outline

import (
	models "studyplan/internal/domain/models/outline"
)

// Tree builds the nested folder/outline view. Children keep store order.
func (s *Store) Tree() *models.TreeNode {
	// Pass 1: create a node for every folder
	folderMap := make(map[string]*models.FolderTreeNode, len(s.folders))
	for _, f := range s.folders {
		folderMap[f.ID] = &models.FolderTreeNode{
			ID:       f.ID,
			Title:    f.Title,
			ParentID: copyPtr(f.ParentID),
			Folders:  []*models.FolderTreeNode{},
			Outlines: []models.OutlineTreeNode{},
		}
	}

	root := &models.TreeNode{
		Folders:  []*models.FolderTreeNode{},
		Outlines: []models.OutlineTreeNode{},
	}

	// Pass 2: attach folders to their parents
	for _, f := range s.folders {
		node := folderMap[f.ID]
		if f.ParentID == nil {
			root.Folders = append(root.Folders, node)
			continue
		}
		if parent, ok := folderMap[*f.ParentID]; ok {
			parent.Folders = append(parent.Folders, node)
		} else {
			root.Folders = append(root.Folders, node)
		}
	}

	// Pass 3: attach outlines
	for _, o := range s.outlines {
		node := models.OutlineTreeNode{
			ID:           o.ID,
			Title:        o.DisplayTitle(),
			FolderID:     copyPtr(o.FolderID),
			SectionCount: len(o.Sections),
			TotalMinutes: o.TotalMinutes(),
			Active:       o.ID == s.activeID,
			UpdatedAt:    o.UpdatedAt,
		}
		if o.FolderID == nil {
			root.Outlines = append(root.Outlines, node)
			continue
		}
		if folder, ok := folderMap[*o.FolderID]; ok {
			folder.Outlines = append(folder.Outlines, node)
		} else {
			root.Outlines = append(root.Outlines, node)
		}
	}

	return root
}
