// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/domain/subject"
	"github.com/radhhh/flae-bot/internal/domain/user"
)

// UserRepository is a mock for repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Ensure(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// SubjectRepository is a mock for repository.SubjectRepository.
type SubjectRepository struct {
	mock.Mock
}

func (m *SubjectRepository) GetOrCreate(ctx context.Context, userID, name string) (*subject.Subject, error) {
	args := m.Called(ctx, userID, name)
	if subj, ok := args.Get(0).(*subject.Subject); ok {
		return subj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubjectRepository) GetByName(ctx context.Context, userID, name string) (*subject.Subject, error) {
	args := m.Called(ctx, userID, name)
	if subj, ok := args.Get(0).(*subject.Subject); ok {
		return subj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubjectRepository) List(ctx context.Context, userID string) ([]subject.Subject, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]subject.Subject); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, userID, id string) (*session.Session, error) {
	args := m.Called(ctx, userID, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) GetActive(ctx context.Context, userID string) (*session.Session, error) {
	args := m.Called(ctx, userID)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListConfirmed(ctx context.Context, userID, subjectID string, from, to time.Time) ([]session.Session, error) {
	args := m.Called(ctx, userID, subjectID, from, to)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AllocationRepository is a mock for repository.AllocationRepository.
type AllocationRepository struct {
	mock.Mock
}

func (m *AllocationRepository) Upsert(ctx context.Context, alloc *allocation.Allocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *AllocationRepository) Get(ctx context.Context, userID, subjectID string, weekStart time.Time) (*allocation.Allocation, error) {
	args := m.Called(ctx, userID, subjectID, weekStart)
	if alloc, ok := args.Get(0).(*allocation.Allocation); ok {
		return alloc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AllocationRepository) ListForWeek(ctx context.Context, userID string, weekStart time.Time) ([]allocation.Allocation, error) {
	args := m.Called(ctx, userID, weekStart)
	if list, ok := args.Get(0).([]allocation.Allocation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
