package handler

import (
	"log/slog"
	"net/http"

	"studyplan/internal/domain"
	"studyplan/internal/domain/services"
	"studyplan/internal/httputil"
	"studyplan/internal/service/outline"
)

// OutlineHandler handles outline, section and link HTTP requests. Each
// request maps onto one workspace operation.
type OutlineHandler struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewOutlineHandler creates a new outline handler
func NewOutlineHandler(workspace services.WorkspaceService, logger *slog.Logger) *OutlineHandler {
	return &OutlineHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// CreateOutlineRequest is the body of POST /api/outlines
type CreateOutlineRequest struct {
	Title    string  `json:"title"`
	FolderID *string `json:"folder_id,omitempty"`
}

// UpdateOutlineRequest renames and/or moves an outline. folder_id: null
// moves to root; an absent folder_id leaves the outline where it is.
type UpdateOutlineRequest struct {
	Title    *string                 `json:"title,omitempty"`
	FolderID httputil.OptionalString `json:"folder_id"`
}

// ReorderRequest moves the item at From to To.
type ReorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (r ReorderRequest) validate() error {
	if r.From == nil || r.To == nil {
		return domain.Invalid("from and to are required")
	}
	return nil
}

// CreateOutline creates an empty outline
// POST /api/outlines
func (h *OutlineHandler) CreateOutline(w http.ResponseWriter, r *http.Request) {
	var req CreateOutlineRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.CreateOutlineOp{Title: req.Title, FolderID: req.FolderID}, http.StatusCreated)
}

// UpdateOutline renames and/or moves an outline
// PATCH /api/outlines/{id}
func (h *OutlineHandler) UpdateOutline(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateOutlineRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Title == nil && !req.FolderID.Present {
		httputil.RespondError(w, http.StatusBadRequest, "nothing to update: send title and/or folder_id")
		return
	}

	apply(h.workspace, w, r, outline.UpdateOutlineOp{
		OutlineID: id,
		OutlinePatch: outline.OutlinePatch{
			Title:    req.Title,
			Move:     req.FolderID.Present,
			FolderID: req.FolderID.Value,
		},
	}, http.StatusOK)
}

// DeleteOutline removes a saved outline
// DELETE /api/outlines/{id}
func (h *OutlineHandler) DeleteOutline(w http.ResponseWriter, r *http.Request) {
	remove(h.workspace, w, r, outline.DeleteOutlineOp{OutlineID: r.PathValue("id")})
}

// DuplicateOutline copies an outline with fresh section and link ids
// POST /api/outlines/{id}/duplicate
func (h *OutlineHandler) DuplicateOutline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title *string `json:"title,omitempty"`
	}
	if r.ContentLength != 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}
	}
	apply(h.workspace, w, r, outline.DuplicateOutlineOp{OutlineID: r.PathValue("id"), Title: req.Title}, http.StatusCreated)
}

// MergeOutlines creates a new outline from target then source sections
// POST /api/outlines/merge
func (h *OutlineHandler) MergeOutlines(w http.ResponseWriter, r *http.Request) {
	var req outline.MergeOutlinesOp
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, req, http.StatusCreated)
}

// AddSection appends a section
// POST /api/outlines/{id}/sections
func (h *OutlineHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	var in outline.SectionInput
	if r.ContentLength != 0 {
		if err := httputil.ParseJSON(w, r, &in); err != nil {
			badRequest(w, err)
			return
		}
	}
	apply(h.workspace, w, r, outline.AddSectionOp{OutlineID: r.PathValue("id"), SectionInput: in}, http.StatusCreated)
}

// UpdateSection edits name, minutes or description
// PATCH /api/outlines/{id}/sections/{sid}
func (h *OutlineHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var patch outline.SectionPatch
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.UpdateSectionOp{
		OutlineID:    r.PathValue("id"),
		SectionID:    r.PathValue("sid"),
		SectionPatch: patch,
	}, http.StatusOK)
}

// DeleteSection removes a section
// DELETE /api/outlines/{id}/sections/{sid}
func (h *OutlineHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	remove(h.workspace, w, r, outline.DeleteSectionOp{
		OutlineID: r.PathValue("id"),
		SectionID: r.PathValue("sid"),
	})
}

// ReorderSections moves one section within its outline
// POST /api/outlines/{id}/sections/reorder
func (h *OutlineHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := req.validate(); err != nil {
		handleError(w, err)
		return
	}
	apply(h.workspace, w, r, outline.ReorderSectionOp{
		OutlineID: r.PathValue("id"),
		From:      *req.From,
		To:        *req.To,
	}, http.StatusOK)
}

// AddLink appends a link to a section
// POST /api/outlines/{id}/sections/{sid}/links
func (h *OutlineHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	var in outline.LinkInput
	if err := httputil.ParseJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.AddLinkOp{
		OutlineID: r.PathValue("id"),
		SectionID: r.PathValue("sid"),
		Link:      in,
	}, http.StatusCreated)
}

// UpdateLink edits a link and its icon
// PATCH /api/outlines/{id}/sections/{sid}/links/{lid}
func (h *OutlineHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var patch outline.LinkPatch
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	apply(h.workspace, w, r, outline.UpdateLinkOp{
		OutlineID: r.PathValue("id"),
		SectionID: r.PathValue("sid"),
		LinkID:    r.PathValue("lid"),
		Patch:     patch,
	}, http.StatusOK)
}

// DeleteLink removes a link
// DELETE /api/outlines/{id}/sections/{sid}/links/{lid}
func (h *OutlineHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	remove(h.workspace, w, r, outline.DeleteLinkOp{
		OutlineID: r.PathValue("id"),
		SectionID: r.PathValue("sid"),
		LinkID:    r.PathValue("lid"),
	})
}

// ReorderLinks moves one link within its section
// POST /api/outlines/{id}/sections/{sid}/links/reorder
func (h *OutlineHandler) ReorderLinks(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := req.validate(); err != nil {
		handleError(w, err)
		return
	}
	apply(h.workspace, w, r, outline.ReorderLinkOp{
		OutlineID: r.PathValue("id"),
		SectionID: r.PathValue("sid"),
		From:      *req.From,
		To:        *req.To,
	}, http.StatusOK)
}
