package outline

import (
	"encoding/json"
	"testing"

	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/models/schedule"
)

func TestNormalize_LoadedShapes(t *testing.T) {
	raw := `{
		"folders": [
			{"id": "f1", "title": "A", "parent_id": "f2"},
			{"id": "f2", "title": "B", "parent_id": "f1"},
			{"id": "f3", "title": "C", "parent_id": "ghost"}
		],
		"outlines": [
			{"id": "o1", "title": "", "folder_id": "ghost", "sections": [
				{"id": "", "name": "", "minutes": "abc"},
				{"id": "dup", "name": "x", "minutes": "12.5", "links": [{"id": "l", "icon": "svg"}]},
				{"id": "dup", "name": "y", "minutes": -3},
				{"id": "z", "name": "z", "minutes": null}
			]},
			{"id": "o1", "title": "clash"}
		],
		"shelf": null
	}`
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !Normalize(&snap) {
		t.Fatal("Normalize() = false, want true")
	}

	if snap.Shelf == nil {
		t.Error("shelf is nil")
	}
	if snap.Folders[2].ParentID != nil {
		t.Errorf("dangling parent kept: %v", *snap.Folders[2].ParentID)
	}
	rooted := 0
	for _, f := range snap.Folders[:2] {
		if f.ParentID == nil {
			rooted++
		}
	}
	if rooted == 0 {
		t.Error("folder cycle not broken")
	}

	o := snap.Outlines[0]
	if o.FolderID != nil {
		t.Errorf("dangling folder_id kept: %v", *o.FolderID)
	}
	if snap.Outlines[1].ID == "o1" {
		t.Error("duplicate outline id kept")
	}
	if snap.Outlines[1].Sections == nil {
		t.Error("nil sections not replaced")
	}

	secs := o.Sections
	if secs[0].ID == "" || secs[0].Name != models.UntitledName || secs[0].Minutes != models.DefaultMinutes {
		t.Errorf("section 0 = %+v", secs[0])
	}
	if secs[0].Links == nil {
		t.Error("nil links not replaced")
	}
	if secs[1].Minutes != 12.5 {
		t.Errorf("numeric string minutes = %v, want 12.5", secs[1].Minutes)
	}
	if secs[1].Links[0].Icon != models.IconEmoji || secs[1].Links[0].Emoji != models.DefaultEmoji {
		t.Errorf("unknown icon not repaired: %+v", secs[1].Links[0])
	}
	if secs[2].ID == "dup" {
		t.Error("duplicate section id kept")
	}
	if secs[2].Minutes != models.DefaultMinutes || secs[3].Minutes != models.DefaultMinutes {
		t.Errorf("invalid minutes = %v, %v, want default", secs[2].Minutes, secs[3].Minutes)
	}

	if Normalize(&snap) {
		t.Error("second Normalize() reported changes")
	}
}

func TestTree(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustFolder(t, s, "A", nil)
	b := mustFolder(t, s, "B", &a.ID)
	root := mustOutline(t, s, "Root", nil, "x")
	nested := mustOutline(t, s, "Nested", &b.ID, "y", "z")
	if _, err := s.Activate(nested.ID); err != nil {
		t.Fatal(err)
	}

	tree := s.Tree()
	if len(tree.Folders) != 1 || tree.Folders[0].ID != a.ID {
		t.Fatalf("root folders = %+v", tree.Folders)
	}
	if len(tree.Outlines) != 1 || tree.Outlines[0].ID != root.ID {
		t.Fatalf("root outlines = %+v", tree.Outlines)
	}
	bNode := tree.Folders[0].Folders
	if len(bNode) != 1 || bNode[0].ID != b.ID {
		t.Fatalf("A children = %+v", bNode)
	}
	leaf := bNode[0].Outlines
	if len(leaf) != 1 {
		t.Fatalf("B outlines = %+v", leaf)
	}
	if leaf[0].SectionCount != 2 || leaf[0].TotalMinutes != 20 || !leaf[0].Active {
		t.Errorf("nested node = %+v", leaf[0])
	}
	if tree.Outlines[0].Active {
		t.Error("root outline marked active")
	}
}

func TestViewStateNotPersisted(t *testing.T) {
	s, _ := newTestStore(t)
	term := mustFolder(t, s, "Term", nil)
	week := mustFolder(t, s, "Week", &term.ID)
	mustOutline(t, s, "Inner", &week.ID)
	mustOutline(t, s, "Root", nil)
	before := s.Snapshot()

	v := models.NewViewState()
	tree := s.Tree()

	collapsed := v.Visible(tree)
	if len(collapsed.Folders) != 1 || len(collapsed.Folders[0].Folders) != 0 {
		t.Errorf("collapsed folders = %+v", collapsed.Folders)
	}
	if len(collapsed.Outlines) != 1 {
		t.Errorf("root outlines = %d, want 1", len(collapsed.Outlines))
	}

	v.ToggleExpanded(term.ID)
	v.ToggleExpanded(week.ID)
	open := v.Visible(tree)
	if got := open.Folders[0].Folders; len(got) != 1 || len(got[0].Outlines) != 1 {
		t.Errorf("expanded folders = %+v", got)
	}
	if len(tree.Folders[0].Folders) != 1 {
		t.Error("Visible modified the source tree")
	}

	if v.ToggleExpanded(week.ID) {
		t.Error("second toggle should collapse")
	}
	v.Forget(term.ID)
	if v.IsExpanded(term.ID) {
		t.Error("IsExpanded() after Forget")
	}

	if s.Version() != before.Version {
		t.Error("view state changes bumped the store version")
	}
}

func TestImportSchedule(t *testing.T) {
	s, _ := newTestStore(t)
	sched := &schedule.Schedule{
		Title: "Exam prep",
		Sessions: []schedule.Session{
			{
				Topic:       "Limits",
				Description: "epsilon-delta",
				DurationMin: 45,
				Materials:   []string{"https://www.khanacademy.org/limits", "Textbook ch. 2"},
				Subsections: []schedule.Subsection{{Name: "Warmup", DurationMin: 0}},
			},
			{Topic: "", DurationMin: 30},
		},
	}

	o, err := s.ImportSchedule(sched, nil)
	if err != nil {
		t.Fatalf("ImportSchedule() error = %v", err)
	}
	if o.Title != "Exam prep" || len(o.Sections) != 2 {
		t.Fatalf("outline = %+v", o)
	}
	first := o.Sections[0]
	if first.Name != "Limits" || first.Minutes != 45 {
		t.Errorf("first section = %+v", first)
	}
	if len(first.Links) != 1 || first.Links[0].Label != "khanacademy.org" {
		t.Errorf("links = %+v", first.Links)
	}
	if first.Desc != "epsilon-delta\n\n- Textbook ch. 2" {
		t.Errorf("Desc = %q", first.Desc)
	}
	if len(first.Subsections) != 1 || first.Subsections[0].Minutes != models.DefaultMinutes {
		t.Errorf("subsections = %+v", first.Subsections)
	}
	if o.Sections[1].Name != models.UntitledName {
		t.Errorf("blank topic name = %q", o.Sections[1].Name)
	}
	if _, err := s.Outline(o.ID); err != nil {
		t.Errorf("imported outline not saved: %v", err)
	}
}

func TestFromSchedule_StripsMarkup(t *testing.T) {
	o := FromSchedule(&schedule.Schedule{
		Title: "<h1>Q&amp;A week</h1>",
		Sessions: []schedule.Session{{
			Topic:       "<b>Cells</b>",
			Description: "<p>Read <strong>ch 3</strong></p><script>x()</script>",
			DurationMin: 20,
			Materials:   []string{"<a href=\"https://example.com\">https://example.com</a>"},
		}},
	})

	if o.Title != "Q&A week" {
		t.Errorf("Title = %q", o.Title)
	}
	sec := o.Sections[0]
	if sec.Name != "Cells" {
		t.Errorf("Name = %q", sec.Name)
	}
	if sec.Desc != "Read **ch 3**" {
		t.Errorf("Desc = %q", sec.Desc)
	}
	if len(sec.Links) != 1 || sec.Links[0].URL != "https://example.com" {
		t.Errorf("Links = %+v", sec.Links)
	}
}
