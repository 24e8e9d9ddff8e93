package session

import (
	"context"

	"github.com/radhhh/flae-bot/internal/domain/subject"
)

// UserRepository ensures user rows exist for lazily created users.
type UserRepository interface {
	Ensure(ctx context.Context, id string) error
}

// SubjectRepository resolves subjects by name, creating them on first use.
type SubjectRepository interface {
	GetOrCreate(ctx context.Context, userID, name string) (*subject.Subject, error)
}

// SessionRepository provides persistence for sessions.
type SessionRepository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, userID, id string) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	GetActive(ctx context.Context, userID string) (*Session, error)
}
