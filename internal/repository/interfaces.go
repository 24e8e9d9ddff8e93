package repository

import (
	"context"
	"time"

	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/domain/subject"
	"github.com/radhhh/flae-bot/internal/domain/user"
)

// UserRepository manages user persistence
type UserRepository interface {
	Ensure(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*user.User, error)
}

// SubjectRepository manages subject persistence
type SubjectRepository interface {
	GetOrCreate(ctx context.Context, userID, name string) (*subject.Subject, error)
	GetByName(ctx context.Context, userID, name string) (*subject.Subject, error)
	List(ctx context.Context, userID string) ([]subject.Subject, error)
}

// SessionRepository manages session persistence. Reads are scoped to the
// owning user; snapshots carry the subject display name.
type SessionRepository interface {
	Create(ctx context.Context, sess *session.Session) error
	Get(ctx context.Context, userID, id string) (*session.Session, error)
	Update(ctx context.Context, sess *session.Session) error
	GetActive(ctx context.Context, userID string) (*session.Session, error)
	ListConfirmed(ctx context.Context, userID, subjectID string, from, to time.Time) ([]session.Session, error)
}

// AllocationRepository manages weekly allocation persistence
type AllocationRepository interface {
	Upsert(ctx context.Context, alloc *allocation.Allocation) error
	Get(ctx context.Context, userID, subjectID string, weekStart time.Time) (*allocation.Allocation, error)
	ListForWeek(ctx context.Context, userID string, weekStart time.Time) ([]allocation.Allocation, error)
}
