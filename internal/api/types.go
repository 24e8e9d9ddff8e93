package api

import (
	"time"

	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/duration"
)

type ClockInParams struct {
	UserID  string `json:"user_id"`
	Subject string `json:"subject"`
	Goal    string `json:"goal,omitempty"`
}

type ClockOutParams struct {
	UserID string `json:"user_id"`
	Note   string `json:"note,omitempty"`
}

type UserParams struct {
	UserID string `json:"user_id"`
}

type SessionRefParams struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type AdjustTimeParams struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Duration  string `json:"duration"`
}

type UpdateGoalParams struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Goal      string `json:"goal"`
}

type SetAllocationParams struct {
	UserID    string  `json:"user_id"`
	Subject   string  `json:"subject"`
	Hours     float64 `json:"hours"`
	WeekStart string  `json:"week_start,omitempty"` // YYYY-MM-DD
}

type WeekParams struct {
	UserID    string `json:"user_id"`
	WeekStart string `json:"week_start,omitempty"`
}

type SubjectAllocationParams struct {
	UserID    string `json:"user_id"`
	Subject   string `json:"subject"`
	WeekStart string `json:"week_start,omitempty"`
}

// SessionResponse is a session snapshot with its effective time computed
// at response time. Rendering into chat messages is the caller's job.
type SessionResponse struct {
	ID                 string     `json:"id"`
	Subject            string     `json:"subject"`
	Status             string     `json:"status"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	Goal               *string    `json:"goal,omitempty"`
	Note               *string    `json:"note,omitempty"`
	EffectiveSeconds   int64      `json:"effective_seconds"`
	EffectiveDisplay   string     `json:"effective_display"`
	TotalPausedSeconds int64      `json:"total_paused_seconds"`
}

// ClockInResponse marks whether a session was started or an existing
// active one was returned unchanged.
type ClockInResponse struct {
	SessionResponse
	Created bool `json:"created"`
}

type AllocationResponse struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	WeekStart        string    `json:"week_start"`
	MinutesAllocated int64     `json:"minutes_allocated"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ProgressResponse struct {
	AllocationResponse
	SpentMinutes int64 `json:"spent_minutes"`
}

func toSessionResponse(sess *session.Session, now time.Time) SessionResponse {
	effective := sess.EffectiveSeconds(now)
	return SessionResponse{
		ID:                 sess.ID,
		Subject:            sess.SubjectName,
		Status:             string(sess.Status),
		StartedAt:          sess.StartedAt,
		EndedAt:            sess.EndedAt,
		Goal:               sess.Goal,
		Note:               sess.Note,
		EffectiveSeconds:   effective,
		EffectiveDisplay:   duration.Format(effective),
		TotalPausedSeconds: sess.TotalPausedSeconds,
	}
}

func toAllocationResponse(alloc *allocation.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:               alloc.ID,
		Subject:          alloc.SubjectName,
		WeekStart:        alloc.WeekStart.Format(time.DateOnly),
		MinutesAllocated: alloc.MinutesAllocated,
		UpdatedAt:        alloc.UpdatedAt,
	}
}

func toProgressResponse(progress allocation.Progress) ProgressResponse {
	return ProgressResponse{
		AllocationResponse: toAllocationResponse(&progress.Allocation),
		SpentMinutes:       progress.SpentMinutes,
	}
}
