package outline

import (
	"strings"

	"studyplan/internal/config"
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
)

// CreateOutline appends a new empty outline to a container (nil = root).
// A blank title becomes "New outline".
func (s *Store) CreateOutline(title string, folderID *string) (*models.Outline, error) {
	title = orDefault(title, models.NewOutlineTitle)
	if err := validateLength("title", title, config.MaxOutlineTitleLength); err != nil {
		return nil, err
	}
	container, err := s.resolveContainer(folderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o := &models.Outline{
		ID:        newOutlineID(),
		Title:     title,
		FolderID:  container,
		Sections:  []models.Section{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.outlines = append(s.outlines, o)

	s.commit(Change{Kind: KindCreateOutline, OutlineID: o.ID})

	c := copyOutline(o)
	return &c, nil
}

// OutlinePatch edits an outline's title and/or container in one step. Move
// selects whether FolderID applies; a nil FolderID with Move set means root.
type OutlinePatch struct {
	Title    *string `json:"title,omitempty"`
	Move     bool    `json:"move,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}

// RenameOutline stores the title exactly as typed (it may be empty).
func (s *Store) RenameOutline(id, title string) (*models.Outline, error) {
	return s.updateOutline(KindRenameOutline, id, OutlinePatch{Title: &title})
}

// UpdateOutline applies a rename and a move together. Both are validated
// before either is applied, so a rejected move leaves the title untouched.
func (s *Store) UpdateOutline(id string, p OutlinePatch) (*models.Outline, error) {
	if p.Title == nil && !p.Move {
		return nil, domain.Invalid("nothing to update")
	}
	return s.updateOutline(KindUpdateOutline, id, p)
}

func (s *Store) updateOutline(kind, id string, p OutlinePatch) (*models.Outline, error) {
	if p.Title != nil {
		if err := validateLength("title", *p.Title, config.MaxOutlineTitleLength); err != nil {
			return nil, err
		}
	}
	if p.Move && p.FolderID != nil && *p.FolderID == id {
		return nil, &domain.CyclicMoveError{ID: id, DestinationID: id}
	}
	o, idx, err := s.findOutline(id)
	if err != nil {
		return nil, err
	}
	var dest *string
	if p.Move {
		if dest, err = s.resolveContainer(p.FolderID); err != nil {
			return nil, err
		}
	}

	change := Change{Kind: kind, OutlineID: o.ID}
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Move {
		s.outlines = append(s.outlines[:idx], s.outlines[idx+1:]...)
		o.FolderID = dest
		s.outlines = append(s.outlines, o)
		if dest != nil {
			change.FolderID = *dest
		}
	}
	s.touch(o)
	s.commit(change)

	c := copyOutline(o)
	return &c, nil
}

// DeleteOutline removes an outline from wherever it lives.
func (s *Store) DeleteOutline(id string) error {
	_, idx, err := s.findOutline(id)
	if err != nil {
		return err
	}

	s.outlines = append(s.outlines[:idx], s.outlines[idx+1:]...)
	s.commit(Change{Kind: KindDeleteOutline, OutlineID: id})
	return nil
}

// DuplicateOutline deep-copies an outline with fresh ids for the outline,
// every section and every link. The copy is placed right after the source.
func (s *Store) DuplicateOutline(id string, newTitle *string) (*models.Outline, error) {
	src, idx, err := s.findOutline(id)
	if err != nil {
		return nil, err
	}

	title := src.DisplayTitle() + " (copy)"
	if newTitle != nil && strings.TrimSpace(*newTitle) != "" {
		title = strings.TrimSpace(*newTitle)
	}
	if err := validateLength("title", title, config.MaxOutlineTitleLength); err != nil {
		return nil, err
	}

	now := s.now()
	dup := &models.Outline{
		ID:        newOutlineID(),
		Title:     title,
		Sections:  freshSections(src.Sections),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if src.FolderID != nil {
		dup.FolderID = strPtr(*src.FolderID)
	}

	s.insertOutlineAt(idx+1, dup)
	s.commit(Change{Kind: KindDuplicateOutline, OutlineID: dup.ID})

	c := copyOutline(dup)
	return &c, nil
}

// MergeOutlines creates a new outline whose sections are the target's
// followed by the source's, all with fresh ids. Source and target are left
// untouched. The merged outline lands right after the target, in the
// target's container.
func (s *Store) MergeOutlines(sourceID, targetID, title string) (*models.Outline, error) {
	if sourceID == targetID {
		return nil, domain.Invalid("cannot merge an outline with itself")
	}
	src, _, err := s.findOutline(sourceID)
	if err != nil {
		return nil, err
	}
	tgt, tgtIdx, err := s.findOutline(targetID)
	if err != nil {
		return nil, err
	}

	title = orDefault(title, tgt.DisplayTitle()+" + "+src.DisplayTitle())
	if err := validateLength("title", title, config.MaxOutlineTitleLength); err != nil {
		return nil, err
	}

	sections := make([]models.Section, 0, len(tgt.Sections)+len(src.Sections))
	sections = append(sections, freshSections(tgt.Sections)...)
	sections = append(sections, freshSections(src.Sections)...)

	now := s.now()
	merged := &models.Outline{
		ID:        newOutlineID(),
		Title:     title,
		Sections:  sections,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tgt.FolderID != nil {
		merged.FolderID = strPtr(*tgt.FolderID)
	}

	s.insertOutlineAt(tgtIdx+1, merged)
	s.commit(Change{Kind: KindMergeOutlines, OutlineID: merged.ID})

	c := copyOutline(merged)
	return &c, nil
}

// MoveOutline removes an outline from its container and appends it to the
// destination (nil = root).
func (s *Store) MoveOutline(id string, destFolderID *string) (*models.Outline, error) {
	return s.updateOutline(KindMoveOutline, id, OutlinePatch{Move: true, FolderID: destFolderID})
}

func (s *Store) insertOutlineAt(i int, o *models.Outline) {
	s.outlines = append(s.outlines, nil)
	copy(s.outlines[i+1:], s.outlines[i:])
	s.outlines[i] = o
}
