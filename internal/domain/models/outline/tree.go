package outline

import "time"

// TreeNode represents the root of the folder/outline tree
type TreeNode struct {
	Folders  []*FolderTreeNode `json:"folders"`
	Outlines []OutlineTreeNode `json:"outlines"`
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	ParentID *string           `json:"parent_id"`
	Folders  []*FolderTreeNode `json:"folders"`
	Outlines []OutlineTreeNode `json:"outlines"`
}

// OutlineTreeNode is outline metadata for the tree (no section bodies)
type OutlineTreeNode struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	FolderID     *string   `json:"folder_id"`
	SectionCount int       `json:"section_count"`
	TotalMinutes float64   `json:"total_minutes"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updated_at"`
}
