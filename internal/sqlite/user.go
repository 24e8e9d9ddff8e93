package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/radhhh/flae-bot/internal/domain/user"
	"github.com/radhhh/flae-bot/internal/repository"
)

// UserRepository implements repository.UserRepository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure creates the user row if it doesn't exist yet
func (r *UserRepository) Ensure(ctx context.Context, id string) error {
	if id == "" {
		return repository.ErrInvalidInput
	}

	query := `INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT id, created_at FROM users WHERE id = ?`

	var u user.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
