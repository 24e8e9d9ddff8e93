// Package allocation computes weekly time-allocation targets and the time
// actually spent against them.
package allocation

import "time"

// Allocation is the target minutes for a (user, subject, week) triple.
// WeekStart is a calendar date (the Monday of the week) held at midnight
// UTC; the time of day carries no meaning.
type Allocation struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	SubjectID        string    `json:"subject_id"`
	SubjectName      string    `json:"subject_name"`
	WeekStart        time.Time `json:"week_start"`
	MinutesAllocated int64     `json:"minutes_allocated"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Progress pairs an allocation with the minutes actually spent, summed
// over confirmed sessions of its subject within the week.
type Progress struct {
	Allocation   Allocation `json:"allocation"`
	SpentMinutes int64      `json:"spent_minutes"`
}
