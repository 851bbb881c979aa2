package outline

import (
	models "studyplan/internal/domain/models/outline"
)

// Active returns a copy of the outline shown in Home, or nil.
func (s *Store) Active() *models.Outline {
	if s.active == nil {
		return nil
	}
	a := copyOutline(s.active)
	return &a
}

// ActiveID is the id of the saved outline mirrored into Home ("" if none).
func (s *Store) ActiveID() string { return s.activeID }

// Activate loads a saved outline into Home. Later edits to the saved outline
// are mirrored into the active copy; the reverse never happens.
func (s *Store) Activate(id string) (*models.Outline, error) {
	o, _, err := s.findOutline(id)
	if err != nil {
		return nil, err
	}

	s.activeID = o.ID
	a := copyOutline(o)
	s.active = &a
	// Carries OutlineID so SyncActive fires with the freshly loaded copy.
	s.commit(Change{Kind: KindActivate, OutlineID: o.ID})

	return s.Active(), nil
}

// Deactivate clears Home.
func (s *Store) Deactivate() {
	if s.active == nil && s.activeID == "" {
		return
	}
	s.activeID = ""
	s.active = nil
	s.commit(Change{Kind: KindDeactivate})
}
