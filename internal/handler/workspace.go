package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/services"
	"studyplan/internal/handler/sse"
	"studyplan/internal/httputil"
	"studyplan/internal/service/outline"
)

// WorkspaceHandler serves whole-workspace reads, raw operations and drops.
type WorkspaceHandler struct {
	workspace services.WorkspaceService
	keepAlive time.Duration
	logger    *slog.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspace services.WorkspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspace: workspace,
		keepAlive: sse.DefaultKeepAlive,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// CloseStreams ends every open event stream. Register it with
// http.Server.RegisterOnShutdown so Shutdown does not wait on them.
func (h *WorkspaceHandler) CloseStreams() {
	h.doneOnce.Do(func() { close(h.done) })
}

// GetSnapshot returns the persisted workspace
// GET /api/workspace
func (h *WorkspaceHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.workspace.Snapshot(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, snap)
}

// GetTree returns the nested folder/outline tree
// GET /api/workspace/tree
func (h *WorkspaceHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.workspace.Tree(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tree)
}

// ApplyOperation runs one typed operation from a {"kind": ...} body
// POST /api/workspace/ops
func (h *WorkspaceHandler) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		badRequest(w, err)
		return
	}
	op, err := outline.DecodeOperation(body)
	if err != nil {
		handleError(w, err)
		return
	}

	res, err := h.workspace.Apply(r.Context(), httputil.GetUserID(r), op)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, res)
}

// ApplyDrop runs the operation a completed drag gesture stands for
// POST /api/workspace/drop
func (h *WorkspaceHandler) ApplyDrop(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		badRequest(w, err)
		return
	}
	drop, err := outline.DecodeDrop(body)
	if err != nil {
		handleError(w, err)
		return
	}

	res, err := h.workspace.ApplyDrop(r.Context(), httputil.GetUserID(r), drop)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, res)
}

// ActiveResponse wraps the active copy so "none" is an explicit null.
type ActiveResponse struct {
	Active *models.Outline `json:"active"`
}

// GetActive returns the active ("Home") copy
// GET /api/workspace/active
func (h *WorkspaceHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	active, err := h.workspace.Active(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ActiveResponse{Active: active})
}

// SetActive loads a saved outline into the active slot
// PUT /api/workspace/active
func (h *WorkspaceHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req outline.ActivateOp
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, req, http.StatusOK)
}

// ClearActive empties the active slot
// DELETE /api/workspace/active
func (h *WorkspaceHandler) ClearActive(w http.ResponseWriter, r *http.Request) {
	apply(h.workspace, w, r, outline.DeactivateOp{}, http.StatusNoContent)
}

// Events streams committed changes as Server-Sent Events
// GET /api/workspace/events
func (h *WorkspaceHandler) Events(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	changes, cancel, err := h.workspace.Subscribe(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer cancel()

	stream, err := sse.Open(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := stream.Event("change", c); err != nil {
				h.logger.Debug("event stream closed", "user_id", userID, "error", err)
				return
			}
		case <-ticker.C:
			if err := stream.KeepAlive(); err != nil {
				h.logger.Debug("event stream closed", "user_id", userID, "error", err)
				return
			}
		}
	}
}

// apply runs op for the request's user and writes the result. Operations
// that produce an entity return it; the rest return the operation summary,
// or nothing when status is 204.
func apply(ws services.WorkspaceService, w http.ResponseWriter, r *http.Request, op outline.Operation, status int) {
	res, err := ws.Apply(r.Context(), httputil.GetUserID(r), op)
	if err != nil {
		handleError(w, err)
		return
	}
	respondResult(w, res, status)
}

// remove is apply for deletions: a missing target is a finished delete.
func remove(ws services.WorkspaceService, w http.ResponseWriter, r *http.Request, op outline.Operation) {
	if _, err := ws.Apply(r.Context(), httputil.GetUserID(r), op); err != nil {
		handleDeleteError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

func respondResult(w http.ResponseWriter, res *services.OperationResult, status int) {
	switch {
	case status == http.StatusNoContent:
		httputil.RespondNoContent(w)
	case res.Result != nil:
		httputil.RespondJSON(w, status, res.Result)
	default:
		httputil.RespondJSON(w, status, res)
	}
}
