package outline

import (
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
)

// AddShelfItem appends a reusable link template to the shelf.
func (s *Store) AddShelfItem(tmpl LinkInput) (*models.Link, error) {
	if err := validateLink(&tmpl); err != nil {
		return nil, err
	}

	l := newLink(tmpl)
	s.shelf = append(s.shelf, l)
	s.commit(Change{Kind: KindAddShelfItem})

	return &l, nil
}

// UpdateShelfItem edits a shelf template in place.
func (s *Store) UpdateShelfItem(id string, p LinkPatch) (*models.Link, error) {
	idx, err := s.findShelfItem(id)
	if err != nil {
		return nil, err
	}

	next := s.shelf[idx]
	if err := applyLinkPatch(&next, p); err != nil {
		return nil, err
	}
	s.shelf[idx] = next
	s.commit(Change{Kind: KindUpdateShelfItem})

	return &next, nil
}

// DeleteShelfItem removes a template. Links already copied into sections
// are unaffected.
func (s *Store) DeleteShelfItem(id string) error {
	idx, err := s.findShelfItem(id)
	if err != nil {
		return err
	}

	s.shelf = append(s.shelf[:idx], s.shelf[idx+1:]...)
	s.commit(Change{Kind: KindDeleteShelfItem})
	return nil
}

// ReorderShelfItem moves a template within the shelf.
func (s *Store) ReorderShelfItem(from, to int) error {
	if err := checkIndex("from", from, len(s.shelf)); err != nil {
		return err
	}
	if err := checkIndex("to", to, len(s.shelf)); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	s.shelf = move(s.shelf, from, to)
	s.commit(Change{Kind: KindReorderShelfItem})
	return nil
}

// CopyShelfItem drops a shelf template into a section as a new link.
func (s *Store) CopyShelfItem(shelfItemID, outlineID, sectionID string) (*models.Link, error) {
	idx, err := s.findShelfItem(shelfItemID)
	if err != nil {
		return nil, err
	}
	return s.AddLink(outlineID, sectionID, TemplateFrom(s.shelf[idx]))
}

func (s *Store) findShelfItem(id string) (int, error) {
	for i, l := range s.shelf {
		if l.ID == id {
			return i, nil
		}
	}
	return -1, domain.NewNotFound("shelf item", id)
}
