package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/repository"
)

// SessionRepository implements repository.SessionRepository for SQLite.
// Every read joins the subject row so snapshots carry the display name.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	s.id, s.user_id, s.subject_id, subj.name,
	s.started_at, s.ended_at, s.goal, s.note, s.status,
	s.total_paused_seconds, s.pause_started_at, s.effective_override_seconds,
	s.created_at, s.updated_at`

// Create inserts a new session. A second RUNNING/PAUSED session for the
// same user fails the partial unique index and returns ErrConflict.
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (
			id, user_id, subject_id, started_at, ended_at, goal, note, status,
			total_paused_seconds, pause_started_at, effective_override_seconds,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.UserID,
		sess.SubjectID,
		sess.StartedAt.UTC(),
		nullTime(sess.EndedAt),
		sess.Goal,
		sess.Note,
		sess.Status,
		sess.TotalPausedSeconds,
		nullTime(sess.PauseStartedAt),
		sess.EffectiveOverrideSeconds,
		sess.CreatedAt.UTC(),
		sess.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID scoped to its owner
func (r *SessionRepository) Get(ctx context.Context, userID, id string) (*session.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM sessions s
		JOIN subjects subj ON subj.id = s.subject_id
		WHERE s.id = ? AND s.user_id = ?
	`

	sess, err := scanSession(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Update rewrites the mutable session fields. Moving a session back into
// an active status while another is active returns ErrConflict.
func (r *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	query := `
		UPDATE sessions
		SET ended_at = ?, goal = ?, note = ?, status = ?,
		    total_paused_seconds = ?, pause_started_at = ?,
		    effective_override_seconds = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		nullTime(sess.EndedAt),
		sess.Goal,
		sess.Note,
		sess.Status,
		sess.TotalPausedSeconds,
		nullTime(sess.PauseStartedAt),
		sess.EffectiveOverrideSeconds,
		sess.UpdatedAt.UTC(),
		sess.ID,
		sess.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetActive returns the user's RUNNING or PAUSED session
func (r *SessionRepository) GetActive(ctx context.Context, userID string) (*session.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM sessions s
		JOIN subjects subj ON subj.id = s.subject_id
		WHERE s.user_id = ? AND s.status IN ('RUNNING', 'PAUSED')
	`

	sess, err := scanSession(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return sess, nil
}

// ListConfirmed returns ENDED_CONFIRMED sessions for a subject whose
// started_at falls within [from, to)
func (r *SessionRepository) ListConfirmed(ctx context.Context, userID, subjectID string, from, to time.Time) ([]session.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM sessions s
		JOIN subjects subj ON subj.id = s.subject_id
		WHERE s.user_id = ? AND s.subject_id = ? AND s.status = 'ENDED_CONFIRMED'
		  AND s.started_at >= ? AND s.started_at < ?
		ORDER BY s.started_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, subjectID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var sess session.Session
	var endedAt, pauseStartedAt sql.NullTime
	var goal, note sql.NullString
	var override sql.NullInt64

	err := row.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.SubjectID,
		&sess.SubjectName,
		&sess.StartedAt,
		&endedAt,
		&goal,
		&note,
		&sess.Status,
		&sess.TotalPausedSeconds,
		&pauseStartedAt,
		&override,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	if pauseStartedAt.Valid {
		t := pauseStartedAt.Time
		sess.PauseStartedAt = &t
	}
	if goal.Valid {
		sess.Goal = &goal.String
	}
	if note.Valid {
		sess.Note = &note.String
	}
	if override.Valid {
		sess.EffectiveOverrideSeconds = &override.Int64
	}

	return &sess, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
