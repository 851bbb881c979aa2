package outline

import (
	"studyplan/internal/config"
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
)

// CreateFolder adds a folder under parentID (nil = root).
func (s *Store) CreateFolder(title string, parentID *string) (*models.Folder, error) {
	title = orDefault(title, models.NewFolderTitle)
	if err := validateLength("title", title, config.MaxFolderTitleLength); err != nil {
		return nil, err
	}
	parent, err := s.resolveContainer(parentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	f := &models.Folder{
		ID:        newFolderID(),
		Title:     title,
		ParentID:  parent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.folders = append(s.folders, f)
	s.commit(Change{Kind: KindCreateFolder, FolderID: f.ID})

	c := copyFolder(f)
	return &c, nil
}

// FolderPatch edits a folder's title and/or parent in one step. Move selects
// whether ParentID applies; a nil ParentID with Move set means root.
type FolderPatch struct {
	Title    *string `json:"title,omitempty"`
	Move     bool    `json:"move,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

// RenameFolder changes a folder's title. Blank titles are rejected.
func (s *Store) RenameFolder(id, title string) (*models.Folder, error) {
	return s.updateFolder(KindRenameFolder, id, FolderPatch{Title: &title})
}

// UpdateFolder applies a rename and a move together. A move that would
// create a cycle rejects the whole patch.
func (s *Store) UpdateFolder(id string, p FolderPatch) (*models.Folder, error) {
	if p.Title == nil && !p.Move {
		return nil, domain.Invalid("nothing to update")
	}
	return s.updateFolder(KindUpdateFolder, id, p)
}

func (s *Store) updateFolder(kind, id string, p FolderPatch) (*models.Folder, error) {
	var title string
	if p.Title != nil {
		title = orDefault(*p.Title, "")
		if title == "" {
			return nil, domain.Invalid("folder title is required")
		}
		if err := validateLength("title", title, config.MaxFolderTitleLength); err != nil {
			return nil, err
		}
	}
	f, _, err := s.findFolder(id)
	if err != nil {
		return nil, err
	}
	var dest *string
	if p.Move {
		if dest, err = s.resolveContainer(p.ParentID); err != nil {
			return nil, err
		}
		if dest != nil {
			if err := s.validateNoCycle(id, *dest); err != nil {
				return nil, err
			}
		}
	}

	if p.Title != nil {
		f.Title = title
	}
	if p.Move {
		f.ParentID = dest
	}
	f.UpdatedAt = s.now()
	s.commit(Change{Kind: kind, FolderID: f.ID})

	c := copyFolder(f)
	return &c, nil
}

// DeleteFolder removes a folder. Its outlines and sub-folders move up to the
// folder's parent; nothing inside is deleted.
func (s *Store) DeleteFolder(id string) error {
	f, idx, err := s.findFolder(id)
	if err != nil {
		return err
	}

	var parent *string
	if f.ParentID != nil {
		parent = strPtr(*f.ParentID)
	}
	now := s.now()
	for _, child := range s.folders {
		if child.ParentID != nil && *child.ParentID == id {
			child.ParentID = copyPtr(parent)
			child.UpdatedAt = now
		}
	}
	for _, o := range s.outlines {
		if o.FolderID != nil && *o.FolderID == id {
			o.FolderID = copyPtr(parent)
			o.UpdatedAt = now
		}
	}
	s.folders = append(s.folders[:idx], s.folders[idx+1:]...)
	s.commit(Change{Kind: KindDeleteFolder, FolderID: id})
	return nil
}

// MoveFolder re-parents a folder (nil = root). Moving a folder into itself or
// any of its descendants fails with a CyclicMoveError and changes nothing.
func (s *Store) MoveFolder(id string, destID *string) (*models.Folder, error) {
	return s.updateFolder(KindMoveFolder, id, FolderPatch{Move: true, ParentID: destID})
}

// validateNoCycle walks up from destID and fails if it reaches folderID.
func (s *Store) validateNoCycle(folderID, destID string) error {
	seen := make(map[string]bool)
	cur := destID
	for {
		if cur == folderID {
			return &domain.CyclicMoveError{ID: folderID, DestinationID: destID}
		}
		if seen[cur] {
			// Normalize keeps the tree acyclic, so this only guards the loop.
			return nil
		}
		seen[cur] = true

		f, _, err := s.findFolder(cur)
		if err != nil || f.ParentID == nil {
			return nil
		}
		cur = *f.ParentID
	}
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return strPtr(*p)
}
