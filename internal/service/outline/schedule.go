package outline

import (
	"net/url"
	"strings"

	"studyplan/internal/config"
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/models/schedule"
	"studyplan/internal/markup"
)

// cleaner strips HTML the model may have put in its output.
var cleaner = markup.New()

// FromSchedule converts a generated schedule into an unsaved outline.
// Sessions become sections, subsections become nested sections. Materials
// that parse as http(s) URLs become links; the rest are appended to the
// notes.
func FromSchedule(sched *schedule.Schedule) models.Outline {
	o := models.Outline{
		Title:    strings.TrimSpace(cleaner.Line(sched.Title)),
		Sections: make([]models.Section, 0, len(sched.Sessions)),
	}
	for _, sess := range sched.Sessions {
		sec := sectionFromSchedule(sess.Topic, sess.Description, sess.DurationMin, sess.Materials)
		for _, sub := range sess.Subsections {
			sec.Subsections = append(sec.Subsections,
				sectionFromSchedule(sub.Name, sub.Description, sub.DurationMin, sub.Materials))
		}
		o.Sections = append(o.Sections, sec)
	}
	return o
}

func sectionFromSchedule(name, desc string, minutes int, materials []string) models.Section {
	sec := models.Section{
		ID:      newSectionID(),
		Name:    orDefault(cleaner.Line(name), models.UntitledName),
		Minutes: clampMinutes(float64(minutes)),
		Desc:    cleaner.Notes(desc),
		Links:   []models.Link{},
	}
	if minutes <= 0 {
		sec.Minutes = models.DefaultMinutes
	}

	var notes []string
	for _, m := range materials {
		m = strings.TrimSpace(cleaner.Line(m))
		if m == "" {
			continue
		}
		if isWebURL(m) {
			sec.Links = append(sec.Links, newLink(LinkInput{Label: linkLabel(m), URL: m}))
			continue
		}
		notes = append(notes, "- "+m)
	}
	if len(notes) > 0 {
		if sec.Desc != "" {
			sec.Desc += "\n\n"
		}
		sec.Desc += strings.Join(notes, "\n")
	}
	return sec
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func linkLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// ImportSchedule saves a generated schedule as a new outline in folderID
// (nil = root).
func (s *Store) ImportSchedule(sched *schedule.Schedule, folderID *string) (*models.Outline, error) {
	if sched == nil {
		return nil, domain.Invalid("schedule is required")
	}
	draft := FromSchedule(sched)
	title := orDefault(draft.Title, models.NewOutlineTitle)
	if err := validateLength("title", title, config.MaxOutlineTitleLength); err != nil {
		return nil, err
	}
	container, err := s.resolveContainer(folderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o := &draft
	o.ID = newOutlineID()
	o.Title = title
	o.FolderID = container
	o.CreatedAt = now
	o.UpdatedAt = now
	s.outlines = append(s.outlines, o)
	s.commit(Change{Kind: KindImportSchedule, OutlineID: o.ID})

	c := copyOutline(o)
	return &c, nil
}
