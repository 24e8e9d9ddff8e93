package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/repository"
)

func newTestSession(userID, subjectID string, startedAt time.Time) *session.Session {
	return &session.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		SubjectID: subjectID,
		StartedAt: startedAt,
		Status:    session.StatusRunning,
		CreatedAt: startedAt,
		UpdatedAt: startedAt,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")

	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	goal := "finish chapter 3"
	sess := newTestSession("user-1", subjID, started)
	sess.Goal = &goal

	require.NoError(t, repo.Create(ctx, sess))

	got, err := repo.Get(ctx, "user-1", sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)
	require.Equal(t, "user-1", got.UserID)
	require.Equal(t, subjID, got.SubjectID)
	require.Equal(t, "maths", got.SubjectName)
	require.Equal(t, session.StatusRunning, got.Status)
	require.True(t, got.StartedAt.Equal(started))
	require.Nil(t, got.EndedAt)
	require.Nil(t, got.PauseStartedAt)
	require.Nil(t, got.EffectiveOverrideSeconds)
	require.NotNil(t, got.Goal)
	require.Equal(t, goal, *got.Goal)
	require.Nil(t, got.Note)
}

func TestSessionRepository_Get_ScopedToOwner(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	seedUser(t, db, "user-2")
	subjID := seedSubject(t, db, "user-1", "maths")

	sess := newTestSession("user-1", subjID, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, sess))

	_, err := repo.Get(ctx, "user-2", sess.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_Create_SecondActiveConflicts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")

	require.NoError(t, repo.Create(ctx, newTestSession("user-1", subjID, time.Now().UTC())))

	err := repo.Create(ctx, newTestSession("user-1", subjID, time.Now().UTC()))
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestSessionRepository_Create_UnknownSubject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")

	err := repo.Create(ctx, newTestSession("user-1", "no-such-subject", time.Now().UTC()))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestSessionRepository_Update_Roundtrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")

	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	sess := newTestSession("user-1", subjID, started)
	require.NoError(t, repo.Create(ctx, sess))

	ended := started.Add(time.Hour)
	note := "wrapped up"
	override := int64(1800)
	sess.Status = session.StatusEndedUnconfirmed
	sess.EndedAt = &ended
	sess.Note = &note
	sess.TotalPausedSeconds = 120
	sess.EffectiveOverrideSeconds = &override
	sess.UpdatedAt = ended
	require.NoError(t, repo.Update(ctx, sess))

	got, err := repo.Get(ctx, "user-1", sess.ID)
	require.NoError(t, err)
	require.Equal(t, session.StatusEndedUnconfirmed, got.Status)
	require.NotNil(t, got.EndedAt)
	require.True(t, got.EndedAt.Equal(ended))
	require.Equal(t, int64(120), got.TotalPausedSeconds)
	require.NotNil(t, got.EffectiveOverrideSeconds)
	require.Equal(t, override, *got.EffectiveOverrideSeconds)
	require.NotNil(t, got.Note)
	require.Equal(t, note, *got.Note)
}

func TestSessionRepository_Update_MissingRow(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")

	sess := newTestSession("user-1", subjID, time.Now().UTC())
	err := repo.Update(ctx, sess)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_Update_ReactivateConflicts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")

	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	ended := started.Add(time.Hour)

	old := newTestSession("user-1", subjID, started)
	old.Status = session.StatusEndedConfirmed
	old.EndedAt = &ended
	require.NoError(t, repo.Create(ctx, old))

	active := newTestSession("user-1", subjID, ended.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, active))

	old.Status = session.StatusRunning
	old.EndedAt = nil
	err := repo.Update(ctx, old)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestSessionRepository_GetActive(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")

	_, err := repo.GetActive(ctx, "user-1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	sess := newTestSession("user-1", subjID, time.Now().UTC())
	sess.Status = session.StatusPaused
	now := time.Now().UTC()
	sess.PauseStartedAt = &now
	require.NoError(t, repo.Create(ctx, sess))

	got, err := repo.GetActive(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)
	require.Equal(t, session.StatusPaused, got.Status)
	require.NotNil(t, got.PauseStartedAt)
}

func TestSessionRepository_ListConfirmed(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	subjID := seedSubject(t, db, "user-1", "maths")
	otherSubjID := seedSubject(t, db, "user-1", "physics")

	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 7)

	mkConfirmed := func(subjectID string, startedAt time.Time) {
		sess := newTestSession("user-1", subjectID, startedAt)
		ended := startedAt.Add(time.Hour)
		sess.Status = session.StatusEndedConfirmed
		sess.EndedAt = &ended
		require.NoError(t, repo.Create(ctx, sess))
	}

	mkConfirmed(subjID, weekStart.Add(26*time.Hour))
	mkConfirmed(subjID, weekStart.Add(2*time.Hour))
	mkConfirmed(otherSubjID, weekStart.Add(3*time.Hour))   // other subject
	mkConfirmed(subjID, weekStart.AddDate(0, 0, 8))        // next week
	mkConfirmed(subjID, weekStart.Add(-2*time.Hour))       // previous week

	// An unconfirmed session in range is excluded.
	unconfirmed := newTestSession("user-1", subjID, weekStart.Add(5*time.Hour))
	endedAt := weekStart.Add(6 * time.Hour)
	unconfirmed.Status = session.StatusEndedUnconfirmed
	unconfirmed.EndedAt = &endedAt
	require.NoError(t, repo.Create(ctx, unconfirmed))

	got, err := repo.ListConfirmed(ctx, "user-1", subjID, weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by start time ascending.
	require.True(t, got[0].StartedAt.Before(got[1].StartedAt))
}
