package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("invalid argument")
	ErrUnauthorized = errors.New("unauthenticated")
	ErrForbidden    = errors.New("forbidden")
	ErrCyclicMove   = errors.New("cyclic move")
	ErrInternal     = errors.New("internal error")
)

// NotFoundError reports a missing entity by kind and id.
// Callers of the outline store usually treat it as a no-op.
type NotFoundError struct {
	Resource string // outline, section, link, folder, shelf item
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CyclicMoveError is returned when moving a container into itself or one of its descendants.
type CyclicMoveError struct {
	ID            string
	DestinationID string
}

func (e *CyclicMoveError) Error() string {
	if e.ID == e.DestinationID {
		return fmt.Sprintf("cannot move %q into itself", e.ID)
	}
	return fmt.Sprintf("cannot move %q into its descendant %q", e.ID, e.DestinationID)
}

func (e *CyclicMoveError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrCyclicMove
func (e *CyclicMoveError) Is(target error) bool { return target == ErrCyclicMove }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NewNotFound builds a NotFoundError.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Invalid wraps a message as an ErrValidation error.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InternalError carries a client-safe message for an unexpected failure.
// The underlying cause is logged where it happens, never wrapped here.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string   { return e.Message }
func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }

// Is allows errors.Is() to match against ErrInternal
func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// Unauthenticated wraps a message as an ErrUnauthorized error.
func Unauthenticated(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
}
