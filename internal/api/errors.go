package api

import (
	"errors"
	"fmt"

	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/domain/session"
)

// APIError is a declined operation surfaced to the router caller.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to API error codes. Store failures map to
// nothing here and propagate as internal errors.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "session not found", RecoveryHint: "Check the session ID"}
	case errors.Is(err, session.ErrNoActiveSession):
		return &APIError{Code: "NO_ACTIVE_SESSION", Message: "no active session", RecoveryHint: "Clock in first"}
	case errors.Is(err, session.ErrNotRunning):
		return &APIError{Code: "NOT_RUNNING", Message: "session is not running", RecoveryHint: "Only a running session can be paused"}
	case errors.Is(err, session.ErrNotPaused):
		return &APIError{Code: "NOT_PAUSED", Message: "session is not paused", RecoveryHint: "Only a paused session can be resumed"}
	case errors.Is(err, session.ErrActiveSessionExists):
		return &APIError{Code: "ACTIVE_SESSION_EXISTS", Message: "another active session exists", RecoveryHint: "Clock out before reopening"}
	case errors.Is(err, session.ErrInvalidDuration):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid duration", RecoveryHint: "Use forms like 1h 20m, 1:20 or 80"}
	case errors.Is(err, session.ErrInvalidInput), errors.Is(err, allocation.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input"}
	case errors.Is(err, allocation.ErrAllocationNotFound):
		return &APIError{Code: "ALLOCATION_NOT_FOUND", Message: "no allocation for that subject and week", RecoveryHint: "Set an allocation first"}
	default:
		return nil
	}
}
