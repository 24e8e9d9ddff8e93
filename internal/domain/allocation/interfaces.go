package allocation

import (
	"context"
	"time"

	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/domain/subject"
)

// UserRepository ensures user rows exist for lazily created users.
type UserRepository interface {
	Ensure(ctx context.Context, id string) error
}

// SubjectRepository resolves subjects by name.
type SubjectRepository interface {
	GetOrCreate(ctx context.Context, userID, name string) (*subject.Subject, error)
	GetByName(ctx context.Context, userID, name string) (*subject.Subject, error)
}

// AllocationRepository provides persistence for weekly allocations.
type AllocationRepository interface {
	Upsert(ctx context.Context, alloc *Allocation) error
	Get(ctx context.Context, userID, subjectID string, weekStart time.Time) (*Allocation, error)
	ListForWeek(ctx context.Context, userID string, weekStart time.Time) ([]Allocation, error)
}

// SessionRepository queries confirmed sessions for spent-time aggregation.
type SessionRepository interface {
	ListConfirmed(ctx context.Context, userID, subjectID string, from, to time.Time) ([]session.Session, error)
}
