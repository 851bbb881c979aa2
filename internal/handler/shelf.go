package handler

import (
	"log/slog"
	"net/http"

	"studyplan/internal/domain/services"
	"studyplan/internal/httputil"
	"studyplan/internal/service/outline"
)

// ShelfHandler handles the link template shelf
type ShelfHandler struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewShelfHandler creates a new shelf handler
func NewShelfHandler(workspace services.WorkspaceService, logger *slog.Logger) *ShelfHandler {
	return &ShelfHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// ListShelf returns the shelf items in order
// GET /api/shelf
func (h *ShelfHandler) ListShelf(w http.ResponseWriter, r *http.Request) {
	snap, err := h.workspace.Snapshot(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, snap.Shelf)
}

// AddShelfItem appends a link template
// POST /api/shelf
func (h *ShelfHandler) AddShelfItem(w http.ResponseWriter, r *http.Request) {
	var in outline.LinkInput
	if err := httputil.ParseJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.AddShelfItemOp{Link: in}, http.StatusCreated)
}

// UpdateShelfItem edits a template
// PATCH /api/shelf/{id}
func (h *ShelfHandler) UpdateShelfItem(w http.ResponseWriter, r *http.Request) {
	var patch outline.LinkPatch
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.UpdateShelfItemOp{ItemID: r.PathValue("id"), Patch: patch}, http.StatusOK)
}

// DeleteShelfItem removes a template
// DELETE /api/shelf/{id}
func (h *ShelfHandler) DeleteShelfItem(w http.ResponseWriter, r *http.Request) {
	remove(h.workspace, w, r, outline.DeleteShelfItemOp{ItemID: r.PathValue("id")})
}

// ReorderShelf moves one template
// POST /api/shelf/reorder
func (h *ShelfHandler) ReorderShelf(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := req.validate(); err != nil {
		handleError(w, err)
		return
	}
	apply(h.workspace, w, r, outline.ReorderShelfItemOp{From: *req.From, To: *req.To}, http.StatusOK)
}

// CopyShelfItem drops a template into a section as a new link
// POST /api/shelf/{id}/copy
func (h *ShelfHandler) CopyShelfItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OutlineID string `json:"outline_id"`
		SectionID string `json:"section_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.CopyShelfItemOp{
		ItemID:    r.PathValue("id"),
		OutlineID: req.OutlineID,
		SectionID: req.SectionID,
	}, http.StatusCreated)
}
