package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radhhh/flae-bot/internal/domain/subject"
	"github.com/radhhh/flae-bot/internal/repository"
)

// SubjectRepository implements repository.SubjectRepository for SQLite
type SubjectRepository struct {
	db *DB
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// GetOrCreate resolves a subject by (user, name), creating it on first use.
// Name matching is case-sensitive exact.
func (r *SubjectRepository) GetOrCreate(ctx context.Context, userID, name string) (*subject.Subject, error) {
	if userID == "" || name == "" {
		return nil, repository.ErrInvalidInput
	}

	subj, err := r.GetByName(ctx, userID, name)
	if err == nil {
		return subj, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	candidate := &subject.Subject{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO subjects (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, candidate.ID, candidate.UserID, candidate.Name, candidate.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			// Lost a create race; the existing row wins.
			return r.GetByName(ctx, userID, name)
		}
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	return candidate, nil
}

// GetByName retrieves a subject by (user, name)
func (r *SubjectRepository) GetByName(ctx context.Context, userID, name string) (*subject.Subject, error) {
	query := `SELECT id, user_id, name, created_at FROM subjects WHERE user_id = ? AND name = ?`

	var subj subject.Subject
	err := r.db.QueryRowContext(ctx, query, userID, name).Scan(
		&subj.ID,
		&subj.UserID,
		&subj.Name,
		&subj.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &subj, nil
}

// List returns all subjects for a user ordered by name
func (r *SubjectRepository) List(ctx context.Context, userID string) ([]subject.Subject, error) {
	query := `SELECT id, user_id, name, created_at FROM subjects WHERE user_id = ? ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []subject.Subject
	for rows.Next() {
		var subj subject.Subject
		if err := rows.Scan(&subj.ID, &subj.UserID, &subj.Name, &subj.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, subj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}

	return subjects, nil
}
