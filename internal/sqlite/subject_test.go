package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radhhh/flae-bot/internal/repository"
)

func TestSubjectRepository_GetOrCreate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")

	subj, err := repo.GetOrCreate(ctx, "user-1", "maths")
	require.NoError(t, err)
	require.NotEmpty(t, subj.ID)
	require.Equal(t, "maths", subj.Name)

	again, err := repo.GetOrCreate(ctx, "user-1", "maths")
	require.NoError(t, err)
	require.Equal(t, subj.ID, again.ID)
}

func TestSubjectRepository_NamesAreCaseSensitive(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")

	lower, err := repo.GetOrCreate(ctx, "user-1", "maths")
	require.NoError(t, err)
	upper, err := repo.GetOrCreate(ctx, "user-1", "Maths")
	require.NoError(t, err)
	require.NotEqual(t, lower.ID, upper.ID)
}

func TestSubjectRepository_ScopedPerUser(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	seedUser(t, db, "user-2")

	first, err := repo.GetOrCreate(ctx, "user-1", "maths")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, "user-2", "maths")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestSubjectRepository_GetByName_NotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")

	_, err := repo.GetByName(ctx, "user-1", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSubjectRepository_List_OrderedByName(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	seedUser(t, db, "user-1")
	for _, name := range []string{"physics", "art", "maths"} {
		_, err := repo.GetOrCreate(ctx, "user-1", name)
		require.NoError(t, err)
	}

	subjects, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	require.Equal(t, "art", subjects[0].Name)
	require.Equal(t, "maths", subjects[1].Name)
	require.Equal(t, "physics", subjects[2].Name)
}

func TestSubjectRepository_UnknownUser(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "no-such-user", "maths")
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
