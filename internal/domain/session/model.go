package session

import "time"

// Status represents the lifecycle status of a focus session.
type Status string

const (
	StatusRunning          Status = "RUNNING"
	StatusPaused           Status = "PAUSED"
	StatusEndedUnconfirmed Status = "ENDED_UNCONFIRMED"
	StatusEndedConfirmed   Status = "ENDED_CONFIRMED"
)

// Active reports whether the status counts toward the one-active-session
// invariant.
func (s Status) Active() bool {
	return s == StatusRunning || s == StatusPaused
}

// Ended reports whether the status carries an end timestamp.
func (s Status) Ended() bool {
	return s == StatusEndedUnconfirmed || s == StatusEndedConfirmed
}

// Session represents one in-progress or completed focus period.
//
// PauseStartedAt is set iff Status is PAUSED; EndedAt is set iff Status is
// one of the ENDED states. EffectiveOverrideSeconds, once set, persists
// until the session is reopened.
type Session struct {
	ID                       string     `json:"id"`
	UserID                   string     `json:"user_id"`
	SubjectID                string     `json:"subject_id"`
	SubjectName              string     `json:"subject_name"`
	StartedAt                time.Time  `json:"started_at"`
	EndedAt                  *time.Time `json:"ended_at,omitempty"`
	Goal                     *string    `json:"goal,omitempty"`
	Note                     *string    `json:"note,omitempty"`
	Status                   Status     `json:"status"`
	TotalPausedSeconds       int64      `json:"total_paused_seconds"`
	PauseStartedAt           *time.Time `json:"pause_started_at,omitempty"`
	EffectiveOverrideSeconds *int64     `json:"effective_override_seconds,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// EffectiveSeconds returns the accounted focus duration at the given
// instant: elapsed wall-clock time minus paused time, or the override
// value when one is set. Callable in any status; once EndedAt and the
// override are fixed the result no longer depends on now.
func (s *Session) EffectiveSeconds(now time.Time) int64 {
	if s.EffectiveOverrideSeconds != nil {
		return *s.EffectiveOverrideSeconds
	}

	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	base := int64(end.Sub(s.StartedAt) / time.Second)

	paused := s.TotalPausedSeconds
	if s.Status == StatusPaused && s.PauseStartedAt != nil {
		paused += int64(now.Sub(*s.PauseStartedAt) / time.Second)
	}

	if effective := base - paused; effective > 0 {
		return effective
	}
	return 0
}
