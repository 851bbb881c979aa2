package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/repositories"
)

//go:embed schema.sql
var schemaFS embed.FS

// SnapshotRepository is the local durable copy of each user's workspace.
type SnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

// Open opens (or creates) the database file at path and applies the schema.
func Open(path string) (*SnapshotRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SnapshotRepository{db: db, now: time.Now}, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SnapshotRepository) Close() error { return r.db.Close() }

// Load returns the stored snapshot, or nil if the user has none.
func (r *SnapshotRepository) Load(ctx context.Context, userID string) (*outline.Snapshot, error) {
	var (
		version int64
		raw     string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT version, snapshot FROM workspaces WHERE user_id = ?`, userID,
	).Scan(&version, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load local snapshot: %w", err)
	}

	var snap outline.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode local snapshot: %w", err)
	}
	snap.Version = version
	return &snap, nil
}

// Save writes the snapshot unless a newer version is already stored.
func (r *SnapshotRepository) Save(ctx context.Context, userID string, snap *outline.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode local snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workspaces (user_id, version, snapshot, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			version = excluded.version,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
		WHERE workspaces.version < excluded.version`,
		userID, snap.Version, string(raw), r.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save local snapshot: %w", err)
	}
	return nil
}
