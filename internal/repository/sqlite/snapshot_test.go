package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"studyplan/internal/domain/models/outline"
)

func newTestRepo(t *testing.T) (*SnapshotRepository, func()) {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return repo, func() { _ = repo.Close() }
}

func TestLoadMissingReturnsNil(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	snap, err := repo.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
}

func TestSaveAndLoad(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	folder := "f1"
	in := &outline.Snapshot{
		Version: 4,
		Folders: []outline.Folder{{ID: folder, Title: "Math"}},
		Outlines: []outline.Outline{{
			ID:       "o1",
			Title:    "Calculus",
			FolderID: &folder,
			Sections: []outline.Section{{ID: "s_1", Name: "Limits", Minutes: 30, Links: []outline.Link{}}},
		}},
		Shelf: []outline.Link{{ID: "l_1", Label: "Docs", URL: "https://example.com", Icon: outline.IconEmoji, Emoji: "📘"}},
	}
	if err := repo.Save(ctx, "u1", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != 4 {
		t.Fatalf("expected version 4, got %d", got.Version)
	}
	if len(got.Outlines) != 1 || got.Outlines[0].Sections[0].Name != "Limits" {
		t.Fatalf("outline not round-tripped: %+v", got.Outlines)
	}
	if got.Outlines[0].FolderID == nil || *got.Outlines[0].FolderID != folder {
		t.Fatalf("folder reference lost")
	}
	if len(got.Shelf) != 1 || got.Shelf[0].Emoji != "📘" {
		t.Fatalf("shelf not round-tripped: %+v", got.Shelf)
	}
}

func TestSaveKeepsNewerVersion(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	if err := repo.Save(ctx, "u1", &outline.Snapshot{Version: 5, Outlines: []outline.Outline{{ID: "new"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, "u1", &outline.Snapshot{Version: 3, Outlines: []outline.Outline{{ID: "old"}}}); err != nil {
		t.Fatalf("save stale: %v", err)
	}

	got, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != 5 || got.Outlines[0].ID != "new" {
		t.Fatalf("stale write replaced newer snapshot: %+v", got)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	if err := repo.Save(ctx, "a", &outline.Snapshot{Version: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx, "b")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no snapshot for user b")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
