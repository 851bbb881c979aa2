package outline

import (
	models "studyplan/internal/domain/models/outline"
)

// copy* functions duplicate values while keeping ids. fresh* functions
// duplicate and assign new ids to every copied entity.

func copySnapshot(snap *models.Snapshot) *models.Snapshot {
	out := &models.Snapshot{
		Version:  snap.Version,
		Folders:  make([]models.Folder, 0, len(snap.Folders)),
		Outlines: make([]models.Outline, 0, len(snap.Outlines)),
		Shelf:    copyLinks(snap.Shelf),
	}
	for i := range snap.Folders {
		out.Folders = append(out.Folders, copyFolder(&snap.Folders[i]))
	}
	for i := range snap.Outlines {
		out.Outlines = append(out.Outlines, copyOutline(&snap.Outlines[i]))
	}
	if snap.Active != nil {
		a := copyOutline(snap.Active)
		out.Active = &a
	}
	return out
}

func copyFolder(f *models.Folder) models.Folder {
	c := *f
	if f.ParentID != nil {
		c.ParentID = strPtr(*f.ParentID)
	}
	return c
}

func copyOutline(o *models.Outline) models.Outline {
	c := *o
	if o.FolderID != nil {
		c.FolderID = strPtr(*o.FolderID)
	}
	c.Sections = copySections(o.Sections)
	return c
}

func copySections(sections []models.Section) []models.Section {
	if sections == nil {
		return nil
	}
	out := make([]models.Section, len(sections))
	for i, sec := range sections {
		out[i] = sec
		out[i].Links = copyLinks(sec.Links)
		out[i].Subsections = copySections(sec.Subsections)
	}
	return out
}

func copyLinks(links []models.Link) []models.Link {
	if links == nil {
		return nil
	}
	out := make([]models.Link, len(links))
	copy(out, links)
	return out
}

func freshSections(sections []models.Section) []models.Section {
	out := make([]models.Section, len(sections))
	for i, sec := range sections {
		out[i] = sec
		out[i].ID = newSectionID()
		out[i].Links = freshLinks(sec.Links)
		if sec.Subsections != nil {
			out[i].Subsections = freshSections(sec.Subsections)
		}
	}
	return out
}

func freshLinks(links []models.Link) []models.Link {
	out := make([]models.Link, len(links))
	for i, l := range links {
		out[i] = l
		out[i].ID = newLinkID()
	}
	return out
}
