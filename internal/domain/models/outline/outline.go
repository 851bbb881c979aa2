package outline

import "time"

// Default titles applied by the store
const (
	UntitledOutline = "Untitled outline"
	NewOutlineTitle = "New outline"
	NewSectionName  = "New section"
	UntitledSection = "Untitled section"
	UntitledName    = "Untitled"
	NewFolderTitle  = "New folder"
)

// Outline is a user-authored study plan made of ordered sections.
type Outline struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"` // stored as typed, may be empty
	FolderID  *string   `json:"folder_id,omitempty"` // nil = root
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayTitle is the title shown in lists.
func (o *Outline) DisplayTitle() string {
	if o.Title == "" {
		return UntitledOutline
	}
	return o.Title
}

// TotalMinutes sums the durations of every section.
func (o *Outline) TotalMinutes() float64 {
	var total float64
	for _, s := range o.Sections {
		total += s.TotalMinutes()
	}
	return total
}

// SectionIndex returns the position of a section or -1.
func (o *Outline) SectionIndex(sectionID string) int {
	for i := range o.Sections {
		if o.Sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}
