package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	repository "github.com/radhhh/flae-bot/internal/repository/repoerr"
)

// Service handles weekly allocation targets and spent-time aggregation.
// The reference timezone for week boundaries is an explicit constructor
// parameter, not ambient state.
type Service struct {
	users       UserRepository
	subjects    SubjectRepository
	allocations AllocationRepository
	sessions    SessionRepository
	loc         *time.Location
	logger      *slog.Logger
	clock       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a new allocation service.
func NewService(
	users UserRepository,
	subjects SubjectRepository,
	allocations AllocationRepository,
	sessions SessionRepository,
	loc *time.Location,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		users:       users,
		subjects:    subjects,
		allocations: allocations,
		sessions:    sessions,
		loc:         loc,
		logger:      logger,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set upserts the allocation for (user, subject, week). The subject is
// created if absent; minutes are hours*60 truncated toward zero. A nil
// weekStart targets the current week.
func (s *Service) Set(ctx context.Context, userID, subjectName string, hours float64, weekStart *time.Time) (*Allocation, error) {
	if userID == "" || subjectName == "" {
		return nil, ErrInvalidInput
	}
	if hours < 0 {
		return nil, fmt.Errorf("%w: negative hours", ErrInvalidInput)
	}

	if err := s.users.Ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensuring user: %w", err)
	}

	subj, err := s.subjects.GetOrCreate(ctx, userID, subjectName)
	if err != nil {
		return nil, fmt.Errorf("resolving subject: %w", err)
	}

	week := s.resolveWeek(weekStart)
	now := s.clock()
	alloc := &Allocation{
		ID:               uuid.NewString(),
		UserID:           userID,
		SubjectID:        subj.ID,
		SubjectName:      subj.Name,
		WeekStart:        week,
		MinutesAllocated: int64(hours * 60),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.allocations.Upsert(ctx, alloc); err != nil {
		return nil, fmt.Errorf("upserting allocation: %w", err)
	}

	// Re-read so the caller sees the stored row, not the candidate: an
	// upsert onto an existing allocation keeps its identity and created_at.
	stored, err := s.allocations.Get(ctx, userID, subj.ID, week)
	if err != nil {
		return nil, fmt.Errorf("loading allocation: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "allocation set",
			"user_id", userID, "subject", subj.Name,
			"week_start", week.Format(time.DateOnly), "minutes", stored.MinutesAllocated)
	}
	return stored, nil
}

// ForWeek returns every allocation for the week with its spent minutes,
// ordered by allocated minutes descending. A nil weekStart targets the
// current week.
func (s *Service) ForWeek(ctx context.Context, userID string, weekStart *time.Time) ([]Progress, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	week := s.resolveWeek(weekStart)
	allocs, err := s.allocations.ListForWeek(ctx, userID, week)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}

	progress := make([]Progress, 0, len(allocs))
	for _, alloc := range allocs {
		spent, err := s.spentMinutes(ctx, userID, alloc.SubjectID, week)
		if err != nil {
			return nil, err
		}
		progress = append(progress, Progress{Allocation: alloc, SpentMinutes: spent})
	}
	return progress, nil
}

// ForSubject returns the allocation for one named subject with its spent
// minutes, or ErrAllocationNotFound when the subject or allocation is
// absent for the week.
func (s *Service) ForSubject(ctx context.Context, userID, subjectName string, weekStart *time.Time) (*Progress, error) {
	if userID == "" || subjectName == "" {
		return nil, ErrInvalidInput
	}

	subj, err := s.subjects.GetByName(ctx, userID, subjectName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, fmt.Errorf("loading subject: %w", err)
	}

	week := s.resolveWeek(weekStart)
	alloc, err := s.allocations.Get(ctx, userID, subj.ID, week)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, fmt.Errorf("loading allocation: %w", err)
	}

	spent, err := s.spentMinutes(ctx, userID, subj.ID, week)
	if err != nil {
		return nil, err
	}
	return &Progress{Allocation: *alloc, SpentMinutes: spent}, nil
}

// resolveWeek normalizes an optional instant to its week-start date; nil
// means the current week.
func (s *Service) resolveWeek(weekStart *time.Time) time.Time {
	if weekStart == nil {
		return WeekStart(s.clock(), s.loc)
	}
	return WeekStart(*weekStart, s.loc)
}

func (s *Service) spentMinutes(ctx context.Context, userID, subjectID string, week time.Time) (int64, error) {
	from, to := weekRange(week, s.loc)
	sessions, err := s.sessions.ListConfirmed(ctx, userID, subjectID, from, to)
	if err != nil {
		return 0, fmt.Errorf("listing confirmed sessions: %w", err)
	}

	var total int64
	for i := range sessions {
		sess := &sessions[i]
		// A confirmed session contributes its frozen value; one with
		// neither an end timestamp nor an override contributes nothing.
		if sess.EffectiveOverrideSeconds == nil && sess.EndedAt == nil {
			continue
		}
		end := s.clock()
		if sess.EndedAt != nil {
			end = *sess.EndedAt
		}
		total += sess.EffectiveSeconds(end)
	}
	return total / 60, nil
}
