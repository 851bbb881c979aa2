package outline

import (
	"studyplan/internal/config"
	models "studyplan/internal/domain/models/outline"
)

// SectionInput is the payload for AddSection. A nil Minutes means unset;
// non-numeric minutes decode to NaN and fall back to the default.
type SectionInput struct {
	Name    string          `json:"name"`
	Minutes *models.Minutes `json:"minutes,omitempty"`
	Desc    string          `json:"desc,omitempty"`
}

// SectionPatch is a partial section update. Nil fields are left alone.
type SectionPatch struct {
	Name    *string         `json:"name,omitempty"`
	Desc    *string         `json:"desc,omitempty"`
	Minutes *models.Minutes `json:"minutes,omitempty"`
}

// AddSection appends a section to an outline.
func (s *Store) AddSection(outlineID string, in SectionInput) (*models.Section, error) {
	name := orDefault(in.Name, models.NewSectionName)
	if err := validateLength("name", name, config.MaxSectionNameLength); err != nil {
		return nil, err
	}
	if err := validateLength("desc", in.Desc, config.MaxSectionDescLength); err != nil {
		return nil, err
	}
	o, _, err := s.findOutline(outlineID)
	if err != nil {
		return nil, err
	}

	minutes := models.Minutes(models.DefaultMinutes)
	if in.Minutes != nil {
		minutes = clampMinutes(float64(*in.Minutes))
	}
	sec := models.Section{
		ID:      newSectionID(),
		Name:    name,
		Minutes: minutes,
		Desc:    in.Desc,
		Links:   []models.Link{},
	}
	o.Sections = append(o.Sections, sec)
	s.touch(o)
	s.commit(Change{Kind: KindAddSection, OutlineID: o.ID})

	out := copySections([]models.Section{sec})[0]
	return &out, nil
}

// DeleteSection removes a section by id.
func (s *Store) DeleteSection(outlineID, sectionID string) error {
	o, idx, err := s.findSection(outlineID, sectionID)
	if err != nil {
		return err
	}

	o.Sections = append(o.Sections[:idx], o.Sections[idx+1:]...)
	s.touch(o)
	s.commit(Change{Kind: KindDeleteSection, OutlineID: o.ID})
	return nil
}

// ReorderSection moves the section at from so that it ends up at to.
// from == to changes nothing and runs no hooks.
func (s *Store) ReorderSection(outlineID string, from, to int) error {
	o, _, err := s.findOutline(outlineID)
	if err != nil {
		return err
	}
	if err := checkIndex("from", from, len(o.Sections)); err != nil {
		return err
	}
	if err := checkIndex("to", to, len(o.Sections)); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	o.Sections = move(o.Sections, from, to)
	s.touch(o)
	s.commit(Change{Kind: KindReorderSection, OutlineID: o.ID})
	return nil
}

// UpdateSection applies a partial update. A blank name becomes
// "Untitled section"; minutes are clamped like AddSection.
func (s *Store) UpdateSection(outlineID, sectionID string, p SectionPatch) (*models.Section, error) {
	if p.Name != nil {
		if err := validateLength("name", *p.Name, config.MaxSectionNameLength); err != nil {
			return nil, err
		}
	}
	if p.Desc != nil {
		if err := validateLength("desc", *p.Desc, config.MaxSectionDescLength); err != nil {
			return nil, err
		}
	}
	o, idx, err := s.findSection(outlineID, sectionID)
	if err != nil {
		return nil, err
	}

	sec := &o.Sections[idx]
	if p.Name != nil {
		sec.Name = orDefault(*p.Name, models.UntitledSection)
	}
	if p.Desc != nil {
		sec.Desc = *p.Desc
	}
	if p.Minutes != nil {
		sec.Minutes = clampMinutes(float64(*p.Minutes))
	}
	s.touch(o)
	s.commit(Change{Kind: KindUpdateSection, OutlineID: o.ID})

	out := copySections([]models.Section{*sec})[0]
	return &out, nil
}

// move is a splice move: remove at from, insert at to. Indices must be valid.
func move[T any](list []T, from, to int) []T {
	item := list[from]
	list = append(list[:from], list[from+1:]...)
	list = append(list, item)
	copy(list[to+1:], list[to:len(list)-1])
	list[to] = item
	return list
}

