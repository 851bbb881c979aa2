package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/repositories"
)

// SnapshotRepository keeps one JSONB workspace snapshot per user.
type SnapshotRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(config *RepositoryConfig) *SnapshotRepository {
	return &SnapshotRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

func schemaStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id    TEXT PRIMARY KEY,
				version    BIGINT NOT NULL DEFAULT 0,
				snapshot   JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, t.Workspaces),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_updated_at_idx ON %s (updated_at)`,
			t.Workspaces, t.Workspaces),
	}
}

// EnsureSchema creates the workspace table if it does not exist.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	return execTx(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements(r.tables) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure workspace schema: %w", err)
			}
		}
		return nil
	})
}

// Load retrieves the snapshot for a user
func (r *SnapshotRepository) Load(ctx context.Context, userID string) (*outline.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT version, snapshot
		FROM %s
		WHERE user_id = $1
	`, r.tables.Workspaces)

	var (
		version int64
		raw     []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(&version, &raw)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load workspace snapshot: %w", err)
	}

	var snap outline.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode workspace snapshot: %w", err)
	}
	snap.Version = version
	return &snap, nil
}

// Save upserts the snapshot unless the stored row already has a newer or
// equal version.
func (r *SnapshotRepository) Save(ctx context.Context, userID string, snap *outline.Snapshot) error {
	return save(ctx, r.pool, r.tables, r.logger, userID, snap)
}

func save(ctx context.Context, db dbtx, tables *TableNames, logger *slog.Logger, userID string, snap *outline.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode workspace snapshot: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (user_id, version, snapshot)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			version = EXCLUDED.version,
			snapshot = EXCLUDED.snapshot,
			updated_at = now()
		WHERE %[1]s.version < EXCLUDED.version
	`, tables.Workspaces)

	tag, err := db.Exec(ctx, query, userID, snap.Version, raw)
	if err != nil {
		return fmt.Errorf("save workspace snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		logger.Debug("stale snapshot not saved",
			"user_id", userID,
			"version", snap.Version,
		)
	}
	return nil
}
