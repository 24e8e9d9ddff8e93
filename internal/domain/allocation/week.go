package allocation

import "time"

// DefaultTimezone is the reference timezone for week boundaries when none
// is configured.
const DefaultTimezone = "Australia/Sydney"

// WeekStart returns the Monday of the week containing t, evaluated in loc,
// as a calendar date at midnight UTC.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	monday := local.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// weekRange returns the [start, end) instants covering the week in loc.
// Sessions count toward the week their started_at falls into.
func weekRange(weekStart time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 7)
}
