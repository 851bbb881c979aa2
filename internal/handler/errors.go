package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"studyplan/internal/domain"
	"studyplan/internal/httputil"
)

// handleError converts domain errors to problem responses. Internal errors
// only ever expose their client-safe message.
func handleError(w http.ResponseWriter, err error) {
	var (
		cyclic   *domain.CyclicMoveError
		internal *domain.InternalError
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &cyclic):
		httputil.RespondProblem(w, http.StatusConflict, cyclic.Error(), map[string]any{
			"id":             cyclic.ID,
			"destination_id": cyclic.DestinationID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &internal):
		httputil.RespondError(w, http.StatusInternalServerError, internal.Message)
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleDeleteError treats a missing target as an already-finished delete.
func handleDeleteError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		httputil.RespondNoContent(w)
		return
	}
	handleError(w, err)
}

// badRequest reports a malformed request body or parameter.
func badRequest(w http.ResponseWriter, err error) {
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
}
