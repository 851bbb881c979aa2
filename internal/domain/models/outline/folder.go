package outline

import "time"

// Folder is a named container of outlines and nested folders.
type Folder struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ParentID  *string   `json:"parent_id,omitempty"` // nil = root level
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
