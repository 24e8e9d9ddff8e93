package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/repository"
)

// AllocationRepository implements repository.AllocationRepository for
// SQLite. Week starts are stored as YYYY-MM-DD text.
type AllocationRepository struct {
	db *DB
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(db *DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

const allocationColumns = `
	a.id, a.user_id, a.subject_id, subj.name,
	a.week_start_date, a.minutes_allocated, a.created_at, a.updated_at`

// Upsert inserts the allocation, or on the (user, subject, week) unique
// key updates the minutes and the modification timestamp in place.
func (r *AllocationRepository) Upsert(ctx context.Context, alloc *allocation.Allocation) error {
	week := alloc.WeekStart.Format(time.DateOnly)

	query := `
		INSERT INTO weekly_allocations (
			id, user_id, subject_id, week_start_date, minutes_allocated,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		alloc.ID,
		alloc.UserID,
		alloc.SubjectID,
		week,
		alloc.MinutesAllocated,
		alloc.CreatedAt.UTC(),
		alloc.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			updateQuery := `
				UPDATE weekly_allocations
				SET minutes_allocated = ?, updated_at = ?
				WHERE user_id = ? AND subject_id = ? AND week_start_date = ?
			`
			if _, updateErr := r.db.ExecContext(ctx, updateQuery,
				alloc.MinutesAllocated, alloc.UpdatedAt.UTC(),
				alloc.UserID, alloc.SubjectID, week,
			); updateErr != nil {
				return fmt.Errorf("failed to update allocation: %w", updateErr)
			}
			return nil
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create allocation: %w", err)
	}

	return nil
}

// Get retrieves the allocation for (user, subject, week)
func (r *AllocationRepository) Get(ctx context.Context, userID, subjectID string, weekStart time.Time) (*allocation.Allocation, error) {
	query := `
		SELECT` + allocationColumns + `
		FROM weekly_allocations a
		JOIN subjects subj ON subj.id = a.subject_id
		WHERE a.user_id = ? AND a.subject_id = ? AND a.week_start_date = ?
	`

	alloc, err := scanAllocation(r.db.QueryRowContext(ctx, query, userID, subjectID, weekStart.Format(time.DateOnly)))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}
	return alloc, nil
}

// ListForWeek returns all allocations for the week ordered by allocated
// minutes descending
func (r *AllocationRepository) ListForWeek(ctx context.Context, userID string, weekStart time.Time) ([]allocation.Allocation, error) {
	query := `
		SELECT` + allocationColumns + `
		FROM weekly_allocations a
		JOIN subjects subj ON subj.id = a.subject_id
		WHERE a.user_id = ? AND a.week_start_date = ?
		ORDER BY a.minutes_allocated DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, weekStart.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []allocation.Allocation
	for rows.Next() {
		alloc, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, *alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocations: %w", err)
	}

	return allocations, nil
}

func scanAllocation(row rowScanner) (*allocation.Allocation, error) {
	var alloc allocation.Allocation
	var week string

	err := row.Scan(
		&alloc.ID,
		&alloc.UserID,
		&alloc.SubjectID,
		&alloc.SubjectName,
		&week,
		&alloc.MinutesAllocated,
		&alloc.CreatedAt,
		&alloc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	weekStart, err := time.ParseInLocation(time.DateOnly, week, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid week_start_date %q: %w", week, err)
	}
	alloc.WeekStart = weekStart

	return &alloc, nil
}
