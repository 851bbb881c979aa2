package handler

import (
	"net/http"

	"studyplan/internal/capabilities"
	"studyplan/internal/domain/services"
	"studyplan/internal/httputil"
)

// ModelsHandler lists the models a schedule request may name
type ModelsHandler struct {
	schedules services.ScheduleService
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(schedules services.ScheduleService) *ModelsHandler {
	return &ModelsHandler{schedules: schedules}
}

// ModelsResponse is the allow-list in display order.
type ModelsResponse struct {
	Default string                           `json:"default"`
	Models  []capabilities.ModelCapabilities `json:"models"`
}

// ListModels returns the allow-list with the default flagged
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	list := h.schedules.ListModels()
	resp := ModelsResponse{Models: list}
	for _, m := range list {
		if m.Default {
			resp.Default = m.ID
			break
		}
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HealthCheck reports that the server is up
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
