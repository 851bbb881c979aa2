package outline

import (
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
)

// LinkInput is a link template. Its id, if any, is never reused.
type LinkInput struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
	Emoji string `json:"emoji,omitempty"`
	Img   string `json:"img,omitempty"`
}

// LinkPatch is a partial link update. Nil fields are left alone.
type LinkPatch struct {
	Label *string `json:"label,omitempty"`
	URL   *string `json:"url,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Emoji *string `json:"emoji,omitempty"`
	Img   *string `json:"img,omitempty"`
}

// TemplateFrom turns an existing link into a template for copying.
func TemplateFrom(l models.Link) LinkInput {
	return LinkInput{Label: l.Label, URL: l.URL, Icon: l.Icon, Emoji: l.Emoji, Img: l.Img}
}

// newLink builds a link with a fresh id and a consistent icon.
func newLink(in LinkInput) models.Link {
	l := models.Link{
		ID:    newLinkID(),
		Label: in.Label,
		URL:   in.URL,
		Icon:  in.Icon,
		Emoji: in.Emoji,
		Img:   in.Img,
	}
	setIcon(&l, l.Icon)
	return l
}

// setIcon switches the icon kind. Choosing img clears the emoji; choosing
// emoji clears the image and falls back to the default emoji.
func setIcon(l *models.Link, kind string) {
	switch kind {
	case models.IconImage:
		if l.Img != "" {
			l.Icon = models.IconImage
			l.Emoji = ""
			return
		}
		fallthrough
	default:
		l.Icon = models.IconEmoji
		l.Img = ""
		if l.Emoji == "" {
			l.Emoji = models.DefaultEmoji
		}
	}
}

// AddLink copies a template into a section's link list with a new id.
func (s *Store) AddLink(outlineID, sectionID string, tmpl LinkInput) (*models.Link, error) {
	if err := validateLink(&tmpl); err != nil {
		return nil, err
	}
	o, idx, err := s.findSection(outlineID, sectionID)
	if err != nil {
		return nil, err
	}

	l := newLink(tmpl)
	sec := &o.Sections[idx]
	sec.Links = append(sec.Links, l)
	s.touch(o)
	s.commit(Change{Kind: KindAddLink, OutlineID: o.ID})

	return &l, nil
}

// DeleteLink removes a link from a section.
func (s *Store) DeleteLink(outlineID, sectionID, linkID string) error {
	o, secIdx, linkIdx, err := s.findLink(outlineID, sectionID, linkID)
	if err != nil {
		return err
	}

	sec := &o.Sections[secIdx]
	sec.Links = append(sec.Links[:linkIdx], sec.Links[linkIdx+1:]...)
	s.touch(o)
	s.commit(Change{Kind: KindDeleteLink, OutlineID: o.ID})
	return nil
}

// ReorderLink moves a link within its section.
func (s *Store) ReorderLink(outlineID, sectionID string, from, to int) error {
	o, idx, err := s.findSection(outlineID, sectionID)
	if err != nil {
		return err
	}
	sec := &o.Sections[idx]
	if err := checkIndex("from", from, len(sec.Links)); err != nil {
		return err
	}
	if err := checkIndex("to", to, len(sec.Links)); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	sec.Links = move(sec.Links, from, to)
	s.touch(o)
	s.commit(Change{Kind: KindReorderLink, OutlineID: o.ID})
	return nil
}

// UpdateLink edits a link in place.
func (s *Store) UpdateLink(outlineID, sectionID, linkID string, p LinkPatch) (*models.Link, error) {
	o, secIdx, linkIdx, err := s.findLink(outlineID, sectionID, linkID)
	if err != nil {
		return nil, err
	}

	next := o.Sections[secIdx].Links[linkIdx]
	if err := applyLinkPatch(&next, p); err != nil {
		return nil, err
	}

	o.Sections[secIdx].Links[linkIdx] = next
	s.touch(o)
	s.commit(Change{Kind: KindUpdateLink, OutlineID: o.ID})

	return &next, nil
}

// applyLinkPatch edits a copy so a rejected patch leaves the original alone.
func applyLinkPatch(l *models.Link, p LinkPatch) error {
	if p.Label != nil {
		l.Label = *p.Label
	}
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.Emoji != nil {
		l.Emoji = *p.Emoji
	}
	if p.Img != nil {
		l.Img = *p.Img
	}

	in := TemplateFrom(*l)
	if p.Icon != nil {
		in.Icon = *p.Icon
	}
	if err := validateLink(&in); err != nil {
		return err
	}
	setIcon(l, in.Icon)
	return nil
}

func (s *Store) findLink(outlineID, sectionID, linkID string) (*models.Outline, int, int, error) {
	o, secIdx, err := s.findSection(outlineID, sectionID)
	if err != nil {
		return nil, -1, -1, err
	}
	for i, l := range o.Sections[secIdx].Links {
		if l.ID == linkID {
			return o, secIdx, i, nil
		}
	}
	return nil, -1, -1, domain.NewNotFound("link", linkID)
}
