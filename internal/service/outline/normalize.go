package outline

import (
	"math"

	models "studyplan/internal/domain/models/outline"
)

// Normalize repairs a loaded snapshot in place so every store invariant
// holds. It reports whether anything changed.
//
// Repairs: missing ids, unusable minutes (→ DefaultMinutes), nil lists,
// unknown icon kinds, duplicate ids, dangling folder references and
// folder parent cycles.
func Normalize(snap *models.Snapshot) bool {
	changed := false

	if snap.Folders == nil {
		snap.Folders = []models.Folder{}
	}
	if snap.Outlines == nil {
		snap.Outlines = []models.Outline{}
	}
	if snap.Shelf == nil {
		snap.Shelf = []models.Link{}
	}

	folderIDs := make(map[string]bool, len(snap.Folders))
	for i := range snap.Folders {
		f := &snap.Folders[i]
		if f.ID == "" || folderIDs[f.ID] {
			f.ID = newFolderID()
			changed = true
		}
		folderIDs[f.ID] = true
	}
	for i := range snap.Folders {
		f := &snap.Folders[i]
		if f.ParentID != nil && (!folderIDs[*f.ParentID] || *f.ParentID == f.ID) {
			f.ParentID = nil
			changed = true
		}
	}
	if breakFolderCycles(snap.Folders) {
		changed = true
	}

	outlineIDs := make(map[string]bool, len(snap.Outlines))
	for i := range snap.Outlines {
		o := &snap.Outlines[i]
		if o.ID == "" || outlineIDs[o.ID] {
			o.ID = newOutlineID()
			changed = true
		}
		outlineIDs[o.ID] = true
		if o.FolderID != nil && !folderIDs[*o.FolderID] {
			o.FolderID = nil
			changed = true
		}
		if normalizeOutline(o) {
			changed = true
		}
	}

	if normalizeLinks(&snap.Shelf) {
		changed = true
	}

	if snap.Active != nil && normalizeOutline(snap.Active) {
		changed = true
	}

	return changed
}

func normalizeOutline(o *models.Outline) bool {
	changed := false
	if o.Sections == nil {
		o.Sections = []models.Section{}
		changed = true
	}
	if normalizeSections(o.Sections) {
		changed = true
	}
	return changed
}

func normalizeSections(sections []models.Section) bool {
	changed := false
	seen := make(map[string]bool, len(sections))
	for i := range sections {
		s := &sections[i]
		if s.ID == "" || seen[s.ID] {
			s.ID = newSectionID()
			changed = true
		}
		seen[s.ID] = true
		if s.Name == "" {
			s.Name = models.UntitledName
			changed = true
		}
		if !s.Minutes.Valid() {
			s.Minutes = models.DefaultMinutes
			changed = true
		}
		if normalizeLinks(&s.Links) {
			changed = true
		}
		if len(s.Subsections) > 0 && normalizeSections(s.Subsections) {
			changed = true
		}
	}
	return changed
}

func normalizeLinks(links *[]models.Link) bool {
	changed := false
	if *links == nil {
		*links = []models.Link{}
		return true
	}
	seen := make(map[string]bool, len(*links))
	for i := range *links {
		l := &(*links)[i]
		if l.ID == "" || seen[l.ID] {
			l.ID = newLinkID()
			changed = true
		}
		seen[l.ID] = true
		if normalizeIcon(l) {
			changed = true
		}
	}
	return changed
}

// normalizeIcon keeps icon/emoji/img consistent.
func normalizeIcon(l *models.Link) bool {
	switch l.Icon {
	case models.IconImage:
		if l.Img != "" {
			return false
		}
		l.Icon = models.IconEmoji
		if l.Emoji == "" {
			l.Emoji = models.DefaultEmoji
		}
		return true
	case models.IconEmoji:
		if l.Emoji == "" {
			l.Emoji = models.DefaultEmoji
			return true
		}
		return false
	default:
		l.Icon = models.IconEmoji
		if l.Emoji == "" {
			l.Emoji = models.DefaultEmoji
		}
		return true
	}
}

// breakFolderCycles re-roots any folder whose parent chain loops.
func breakFolderCycles(folders []models.Folder) bool {
	byID := make(map[string]*models.Folder, len(folders))
	for i := range folders {
		byID[folders[i].ID] = &folders[i]
	}

	changed := false
	for i := range folders {
		visited := map[string]bool{folders[i].ID: true}
		cur := &folders[i]
		for cur.ParentID != nil {
			if visited[*cur.ParentID] {
				cur.ParentID = nil
				changed = true
				break
			}
			visited[*cur.ParentID] = true
			cur = byID[*cur.ParentID]
			if cur == nil {
				break
			}
		}
	}
	return changed
}

// clampMinutes applies the edit rule: unusable input becomes the default,
// anything else is raised to at least MinMinutes.
func clampMinutes(v float64) models.Minutes {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.DefaultMinutes
	}
	return models.Minutes(math.Max(models.MinMinutes, v))
}
