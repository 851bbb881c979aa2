package handler

import (
	"log/slog"
	"net/http"

	"studyplan/internal/domain/services"
	"studyplan/internal/httputil"
	"studyplan/internal/service/outline"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(workspace services.WorkspaceService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// CreateFolderRequest is the body of POST /api/folders
type CreateFolderRequest struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateFolderRequest renames and/or moves a folder.
// parent_id: null moves the folder to root.
type UpdateFolderRequest struct {
	Title    *string                 `json:"title,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// CreateFolder creates a folder at root or under parent_id
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.CreateFolderOp{Title: req.Title, ParentID: req.ParentID}, http.StatusCreated)
}

// UpdateFolder renames and/or moves a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Title == nil && !req.ParentID.Present {
		httputil.RespondError(w, http.StatusBadRequest, "nothing to update: send title and/or parent_id")
		return
	}

	apply(h.workspace, w, r, outline.UpdateFolderOp{
		FolderID: id,
		FolderPatch: outline.FolderPatch{
			Title:    req.Title,
			Move:     req.ParentID.Present,
			ParentID: req.ParentID.Value,
		},
	}, http.StatusOK)
}

// DeleteFolder removes a folder; its children move to its parent
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	remove(h.workspace, w, r, outline.DeleteFolderOp{FolderID: r.PathValue("id")})
}
