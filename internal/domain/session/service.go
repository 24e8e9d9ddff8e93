package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radhhh/flae-bot/internal/duration"
	repository "github.com/radhhh/flae-bot/internal/repository/repoerr"
)

// Service owns the session state machine: clock-in/out, pause/resume,
// effective-time adjustment, confirmation and reopening.
//
// Lifecycle operations for the same user are serialized through a per-user
// lock so the check-then-act on the active-session set can't race. The
// store's partial unique index on active sessions backs the same invariant
// for concurrent writers outside this process.
type Service struct {
	users    UserRepository
	subjects SubjectRepository
	sessions SessionRepository
	logger   *slog.Logger
	clock    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests to simulate elapsed
// time without sleeping.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a new session service.
func NewService(
	users UserRepository,
	subjects SubjectRepository,
	sessions SessionRepository,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		users:    users,
		subjects: subjects,
		sessions: sessions,
		logger:   logger,
		clock:    time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockUser serializes lifecycle operations per user. Returns the unlock.
func (s *Service) lockUser(userID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ClockIn starts a new RUNNING session against the named subject, creating
// the user and subject on first use. If the user already has an active
// session it is returned unchanged with created == false and nothing new
// is written.
func (s *Service) ClockIn(ctx context.Context, userID, subjectName, goal string) (*Session, bool, error) {
	if userID == "" || subjectName == "" {
		return nil, false, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	if err := s.users.Ensure(ctx, userID); err != nil {
		return nil, false, fmt.Errorf("ensuring user: %w", err)
	}

	existing, err := s.sessions.GetActive(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("loading active session: %w", err)
	}

	subj, err := s.subjects.GetOrCreate(ctx, userID, subjectName)
	if err != nil {
		return nil, false, fmt.Errorf("resolving subject: %w", err)
	}

	now := s.clock()
	sess := &Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		SubjectID:   subj.ID,
		SubjectName: subj.Name,
		StartedAt:   now,
		Status:      StatusRunning,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if goal != "" {
		sess.Goal = &goal
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race against a concurrent clock-in; report the winner.
			winner, getErr := s.sessions.GetActive(ctx, userID)
			if getErr != nil {
				return nil, false, fmt.Errorf("loading active session after conflict: %w", getErr)
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("creating session: %w", err)
	}

	s.log(ctx, "session started", "user_id", userID, "session_id", sess.ID, "subject", subj.Name)
	return sess, true, nil
}

// ClockOut ends the user's active session, moving it to ENDED_UNCONFIRMED.
// A pending pause is accrued into the paused total first.
func (s *Service) ClockOut(ctx context.Context, userID, note string) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	sess, err := s.getActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if sess.Status == StatusPaused && sess.PauseStartedAt != nil {
		sess.TotalPausedSeconds += int64(now.Sub(*sess.PauseStartedAt) / time.Second)
		sess.PauseStartedAt = nil
	}

	sess.EndedAt = &now
	sess.Status = StatusEndedUnconfirmed
	if note != "" {
		sess.Note = &note
	}
	sess.UpdatedAt = now

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.log(ctx, "session ended", "user_id", userID, "session_id", sess.ID)
	return sess, nil
}

// Pause moves the user's RUNNING session to PAUSED.
func (s *Service) Pause(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	sess, err := s.getActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusRunning {
		return nil, ErrNotRunning
	}

	now := s.clock()
	sess.Status = StatusPaused
	sess.PauseStartedAt = &now
	sess.UpdatedAt = now

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return sess, nil
}

// Resume moves the user's PAUSED session back to RUNNING, accruing the
// elapsed pause time into the paused total.
func (s *Service) Resume(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	sess, err := s.getActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusPaused {
		return nil, ErrNotPaused
	}

	now := s.clock()
	if sess.PauseStartedAt != nil {
		sess.TotalPausedSeconds += int64(now.Sub(*sess.PauseStartedAt) / time.Second)
	}
	sess.Status = StatusRunning
	sess.PauseStartedAt = nil
	sess.UpdatedAt = now

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return sess, nil
}

// GetActive returns the user's RUNNING or PAUSED session.
func (s *Service) GetActive(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.getActive(ctx, userID)
}

// Get returns a session by ID, scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (*Session, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.getOwned(ctx, userID, sessionID)
}

// AdjustEffectiveTime sets the effective-time override from a human-entered
// duration string. The override supersedes the computed elapsed/paused
// calculation until the session is reopened.
func (s *Service) AdjustEffectiveTime(ctx context.Context, userID, sessionID, durationText string) (*Session, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	sess, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	seconds, err := duration.Parse(durationText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, err)
	}
	if seconds < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalidDuration)
	}

	sess.EffectiveOverrideSeconds = &seconds
	sess.UpdatedAt = s.clock()

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return sess, nil
}

// Confirm marks a session as ENDED_CONFIRMED. Idempotent when already
// confirmed.
func (s *Service) Confirm(ctx context.Context, userID, sessionID string) (*Session, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	sess, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Status = StatusEndedConfirmed
	sess.UpdatedAt = s.clock()

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.log(ctx, "session confirmed", "user_id", userID, "session_id", sess.ID)
	return sess, nil
}

// Reopen returns an ended session to RUNNING, clearing its end timestamp
// and effective-time override. Rejected while the user has another active
// session.
func (s *Service) Reopen(ctx context.Context, userID, sessionID string) (*Session, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	sess, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.GetActive(ctx, userID); err == nil {
		return nil, ErrActiveSessionExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading active session: %w", err)
	}

	sess.Status = StatusRunning
	sess.EndedAt = nil
	sess.EffectiveOverrideSeconds = nil
	sess.UpdatedAt = s.clock()

	if err := s.sessions.Update(ctx, sess); err != nil {
		// The store's active-session index can still reject a racing
		// reopen from another process.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrActiveSessionExists
		}
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.log(ctx, "session reopened", "user_id", userID, "session_id", sess.ID)
	return sess, nil
}

// UpdateGoal replaces the session goal verbatim; an empty string is stored
// as given.
func (s *Service) UpdateGoal(ctx context.Context, userID, sessionID, goal string) (*Session, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	sess, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Goal = &goal
	sess.UpdatedAt = s.clock()

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return sess, nil
}

// Now returns the service's current clock reading. Collaborators use it so
// one instant covers every derived computation in a request.
func (s *Service) Now() time.Time {
	return s.clock()
}

func (s *Service) getActive(ctx context.Context, userID string) (*Session, error) {
	sess, err := s.sessions.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("loading active session: %w", err)
	}
	return sess, nil
}

func (s *Service) getOwned(ctx context.Context, userID, sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
