// Package user defines the chat-platform user identity that scopes
// subjects, sessions and allocations.
package user

import "time"

// User is created lazily on first activity. The ID is the opaque
// chat-platform user identifier.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
