// Package subject defines the named grouping that sessions and weekly
// allocations attach to.
package subject

import "time"

// Subject is unique per (user, name), case-sensitive exact match, and is
// created lazily on first reference by clock-in or allocation-set.
type Subject struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
