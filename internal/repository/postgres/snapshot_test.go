package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"studyplan/internal/domain/models/outline"
)

func TestNewTableNames(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "workspaces"},
		{"dev_", "dev_workspaces"},
		{"test_", "test_workspaces"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NewTableNames(tt.prefix).Workspaces; got != tt.want {
				t.Errorf("Workspaces = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSchemaStatements_UsePrefixedTable(t *testing.T) {
	for _, stmt := range schemaStatements(NewTableNames("test_")) {
		if !strings.Contains(stmt, "test_workspaces") {
			t.Errorf("statement does not use prefixed table: %s", stmt)
		}
	}
}

// TestSnapshotRepository_RoundTrip needs a scratch database.
func TestSnapshotRepository_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := CreateConnectionPool(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	tables := NewTableNames("test_")
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Workspaces); err != nil {
		t.Fatalf("drop: %v", err)
	}
	repo := NewSnapshotRepository(&RepositoryConfig{Pool: pool, Tables: tables, Logger: discardLogger()})
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	got, err := repo.Load(ctx, "nobody")
	if err != nil || got != nil {
		t.Fatalf("Load(missing) = %v, %v; want nil, nil", got, err)
	}

	snap := &outline.Snapshot{Version: 3, Outlines: []outline.Outline{{ID: "o1", Title: "Algebra"}}}
	if err := repo.Save(ctx, "u1", snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	stale := &outline.Snapshot{Version: 2}
	if err := repo.Save(ctx, "u1", stale); err != nil {
		t.Fatalf("Save(stale) error = %v", err)
	}

	got, err = repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Version != 3 || len(got.Outlines) != 1 || got.Outlines[0].Title != "Algebra" {
		t.Errorf("Load() = %+v, stale write must not win", got)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
