package repositories

import (
	"context"

	"studyplan/internal/domain/models/outline"
)

// SnapshotRepository stores one workspace snapshot per user.
type SnapshotRepository interface {
	// Load returns the stored snapshot for a user.
	// Returns nil (not an error) if nothing has been saved yet.
	Load(ctx context.Context, userID string) (*outline.Snapshot, error)

	// Save writes the snapshot. An older version never replaces a newer
	// one; such writes are dropped silently.
	Save(ctx context.Context, userID string, snap *outline.Snapshot) error
}
