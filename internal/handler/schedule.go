package handler

import (
	"log/slog"
	"net/http"

	"studyplan/internal/domain/models/schedule"
	"studyplan/internal/domain/services"
	"studyplan/internal/httputil"
	"studyplan/internal/service/outline"
)

// ScheduleHandler exposes schedule generation and import
type ScheduleHandler struct {
	schedules services.ScheduleService
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(schedules services.ScheduleService, workspace services.WorkspaceService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		workspace: workspace,
		logger:    logger,
	}
}

// Generate turns a brief into a structured schedule
// POST /api/schedules/generate
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req schedule.GenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	resp, err := h.schedules.Generate(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Import saves a generated schedule as a new outline
// POST /api/schedules/import
func (h *ScheduleHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req outline.ImportScheduleOp
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, req, http.StatusCreated)
}
