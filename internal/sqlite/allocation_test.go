package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/repository"
)

func newTestAllocation(userID, subjectID string, week time.Time, minutes int64) *allocation.Allocation {
	now := time.Now().UTC()
	return &allocation.Allocation{
		ID:               uuid.NewString(),
		UserID:           userID,
		SubjectID:        subjectID,
		WeekStart:        week,
		MinutesAllocated: minutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestAllocationRepository_UpsertAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")
	week := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	alloc := newTestAllocation("user-1", subjID, week, 300)
	require.NoError(t, repo.Upsert(ctx, alloc))

	got, err := repo.Get(ctx, "user-1", subjID, week)
	require.NoError(t, err)
	require.Equal(t, alloc.ID, got.ID)
	require.Equal(t, "maths", got.SubjectName)
	require.Equal(t, int64(300), got.MinutesAllocated)
	require.True(t, got.WeekStart.Equal(week))
}

func TestAllocationRepository_UpsertUpdatesInPlace(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")
	week := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	first := newTestAllocation("user-1", subjID, week, 300)
	require.NoError(t, repo.Upsert(ctx, first))

	// A second upsert for the same key keeps the original row identity.
	second := newTestAllocation("user-1", subjID, week, 180)
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, "user-1", subjID, week)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, int64(180), got.MinutesAllocated)

	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM weekly_allocations WHERE user_id = ? AND subject_id = ?`,
		"user-1", subjID,
	).Scan(&count))
	require.Equal(t, 1, count)
}

func TestAllocationRepository_Get_NotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")

	_, err := repo.Get(ctx, "user-1", subjID, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAllocationRepository_ListForWeek(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	maths := seedSubject(t, db, "user-1", "maths")
	physics := seedSubject(t, db, "user-1", "physics")
	art := seedSubject(t, db, "user-1", "art")

	week := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	nextWeek := week.AddDate(0, 0, 7)

	require.NoError(t, repo.Upsert(ctx, newTestAllocation("user-1", maths, week, 120)))
	require.NoError(t, repo.Upsert(ctx, newTestAllocation("user-1", physics, week, 300)))
	require.NoError(t, repo.Upsert(ctx, newTestAllocation("user-1", art, nextWeek, 600)))

	got, err := repo.ListForWeek(ctx, "user-1", week)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Largest allocation first.
	require.Equal(t, "physics", got[0].SubjectName)
	require.Equal(t, "maths", got[1].SubjectName)
}

func TestAllocationRepository_UnknownSubject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")

	err := repo.Upsert(ctx, newTestAllocation("user-1", "no-such-subject",
		time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), 60))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
