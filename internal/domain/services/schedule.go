package services

import (
	"context"

	"studyplan/internal/capabilities"
	"studyplan/internal/domain/models/schedule"
)

// ScheduleService turns a free-text brief into a structured schedule using a
// hosted completion model.
type ScheduleService interface {
	// Generate validates the request, calls the model once and returns the
	// parsed schedule. userID must identify an authenticated caller.
	Generate(ctx context.Context, userID string, req *schedule.GenerateRequest) (*schedule.GenerateResponse, error)

	// ListModels returns the allow-list (ordered, default flagged).
	ListModels() []capabilities.ModelCapabilities
}
