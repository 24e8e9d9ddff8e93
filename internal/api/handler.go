// Package api dispatches router method calls onto the domain services.
// It is the boundary the chat-platform collaborator talks to; webhook
// framing and message rendering live outside this repo.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/domain/session"
)

// SessionService defines session lifecycle operations needed by the API.
type SessionService interface {
	ClockIn(ctx context.Context, userID, subjectName, goal string) (*session.Session, bool, error)
	ClockOut(ctx context.Context, userID, note string) (*session.Session, error)
	Pause(ctx context.Context, userID string) (*session.Session, error)
	Resume(ctx context.Context, userID string) (*session.Session, error)
	GetActive(ctx context.Context, userID string) (*session.Session, error)
	Get(ctx context.Context, userID, sessionID string) (*session.Session, error)
	AdjustEffectiveTime(ctx context.Context, userID, sessionID, durationText string) (*session.Session, error)
	Confirm(ctx context.Context, userID, sessionID string) (*session.Session, error)
	Reopen(ctx context.Context, userID, sessionID string) (*session.Session, error)
	UpdateGoal(ctx context.Context, userID, sessionID, goal string) (*session.Session, error)
	Now() time.Time
}

// AllocationService defines allocation operations needed by the API.
type AllocationService interface {
	Set(ctx context.Context, userID, subjectName string, hours float64, weekStart *time.Time) (*allocation.Allocation, error)
	ForWeek(ctx context.Context, userID string, weekStart *time.Time) ([]allocation.Progress, error)
	ForSubject(ctx context.Context, userID, subjectName string, weekStart *time.Time) (*allocation.Progress, error)
}

// Handler dispatches router methods.
type Handler struct {
	sessions    SessionService
	allocations AllocationService
}

// NewHandler creates a new API handler.
func NewHandler(sessions SessionService, allocations AllocationService) *Handler {
	return &Handler{
		sessions:    sessions,
		allocations: allocations,
	}
}

// Handle dispatches one router request to the domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "clock_in":
		var req ClockInParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, created, err := h.sessions.ClockIn(ctx, req.UserID, req.Subject, req.Goal)
		if err != nil {
			return nil, mapError(err)
		}
		return ClockInResponse{
			SessionResponse: toSessionResponse(sess, h.sessions.Now()),
			Created:         created,
		}, nil

	case "clock_out":
		var req ClockOutParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.ClockOut(ctx, req.UserID, req.Note))

	case "pause_session":
		var req UserParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.Pause(ctx, req.UserID))

	case "resume_session":
		var req UserParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.Resume(ctx, req.UserID))

	case "get_active_session":
		var req UserParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.GetActive(ctx, req.UserID))

	case "get_session":
		var req SessionRefParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.Get(ctx, req.UserID, req.SessionID))

	case "adjust_time":
		var req AdjustTimeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.AdjustEffectiveTime(ctx, req.UserID, req.SessionID, req.Duration))

	case "confirm_session":
		var req SessionRefParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.Confirm(ctx, req.UserID, req.SessionID))

	case "reopen_session":
		var req SessionRefParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.Reopen(ctx, req.UserID, req.SessionID))

	case "update_goal":
		var req UpdateGoalParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessionResult(h.sessions.UpdateGoal(ctx, req.UserID, req.SessionID, req.Goal))

	case "set_allocation":
		var req SetAllocationParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		weekStart, err := parseWeekStart(req.WeekStart)
		if err != nil {
			return nil, err
		}
		alloc, err := h.allocations.Set(ctx, req.UserID, req.Subject, req.Hours, weekStart)
		if err != nil {
			return nil, mapError(err)
		}
		return toAllocationResponse(alloc), nil

	case "get_allocations":
		var req WeekParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		weekStart, err := parseWeekStart(req.WeekStart)
		if err != nil {
			return nil, err
		}
		progress, err := h.allocations.ForWeek(ctx, req.UserID, weekStart)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ProgressResponse, 0, len(progress))
		for _, p := range progress {
			resp = append(resp, toProgressResponse(p))
		}
		return resp, nil

	case "get_subject_allocation":
		var req SubjectAllocationParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		weekStart, err := parseWeekStart(req.WeekStart)
		if err != nil {
			return nil, err
		}
		progress, err := h.allocations.ForSubject(ctx, req.UserID, req.Subject, weekStart)
		if err != nil {
			return nil, mapError(err)
		}
		return toProgressResponse(*progress), nil

	default:
		return nil, &APIError{Code: "METHOD_NOT_FOUND", Message: fmt.Sprintf("unknown method %q", method)}
	}
}

func (h *Handler) sessionResult(sess *session.Session, err error) (any, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return toSessionResponse(sess, h.sessions.Now()), nil
}

func decodeParams(params json.RawMessage, target any) error {
	if len(params) == 0 {
		return &APIError{Code: "INVALID_INPUT", Message: "missing params"}
	}
	if err := json.Unmarshal(params, target); err != nil {
		return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("malformed params: %v", err)}
	}
	return nil
}

func parseWeekStart(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, &APIError{Code: "INVALID_INPUT", Message: "week_start must be YYYY-MM-DD"}
	}
	return &t, nil
}

// mapError translates a domain error; anything unmapped propagates as-is
// so the transport reports it as internal.
func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
