package services

import (
	"context"

	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/service/outline"
)

// WorkspaceService owns one outline store per user and serializes access to it.
type WorkspaceService interface {
	// Snapshot returns a deep copy of the user's workspace
	Snapshot(ctx context.Context, userID string) (*models.Snapshot, error)

	// Tree builds the nested folder/outline tree
	Tree(ctx context.Context, userID string) (*models.TreeNode, error)

	// Active returns the detached active copy, or nil when none is loaded
	Active(ctx context.Context, userID string) (*models.Outline, error)

	// Apply runs one typed operation
	Apply(ctx context.Context, userID string, op outline.Operation) (*OperationResult, error)

	// ApplyDrop validates a drop payload and runs the operation it maps to
	ApplyDrop(ctx context.Context, userID string, drop *outline.Drop) (*OperationResult, error)

	// Subscribe streams committed changes until cancel is called
	Subscribe(ctx context.Context, userID string) (changes <-chan outline.Change, cancel func(), err error)

	// Close flushes pending cloud writes and stops background workers
	Close() error
}

// OperationResult is what a committed operation produced.
type OperationResult struct {
	Kind    string `json:"kind"`
	Result  any    `json:"result,omitempty"` // created or edited entity
	Version int64  `json:"version"`
}
