// Package sqlite implements the repository interfaces on SQLite.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the schema. Idempotent setups should use a fresh
// database file; the migrate CLI command wraps this for deployments.
func (db *DB) RunMigrations() error {
	migration := `
-- Chat-platform users, created lazily on first activity
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- User-defined subjects; unique per (user, name), case-sensitive
CREATE TABLE subjects (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    UNIQUE (user_id, name)
);
CREATE INDEX idx_subjects_user_name ON subjects(user_id, name);

-- Focus sessions with pause accounting and effective-time override
CREATE TABLE sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP,
    goal TEXT,
    note TEXT,
    status TEXT NOT NULL DEFAULT 'RUNNING'
        CHECK(status IN ('RUNNING', 'PAUSED', 'ENDED_UNCONFIRMED', 'ENDED_CONFIRMED')),
    total_paused_seconds INTEGER NOT NULL DEFAULT 0
        CHECK(total_paused_seconds >= 0),
    pause_started_at TIMESTAMP,
    effective_override_seconds INTEGER
        CHECK(effective_override_seconds IS NULL OR effective_override_seconds >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (subject_id) REFERENCES subjects(id) ON DELETE CASCADE
);
CREATE INDEX idx_sessions_user_status ON sessions(user_id, status);
CREATE INDEX idx_sessions_user_started ON sessions(user_id, started_at);

-- At most one RUNNING/PAUSED session per user; a concurrent second
-- clock-in fails this index and is reported as a conflict
CREATE UNIQUE INDEX uq_sessions_user_active ON sessions(user_id)
    WHERE status IN ('RUNNING', 'PAUSED');

-- Weekly allocation targets; week_start_date is the Monday as YYYY-MM-DD
CREATE TABLE weekly_allocations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    week_start_date TEXT NOT NULL,
    minutes_allocated INTEGER NOT NULL
        CHECK(minutes_allocated >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (subject_id) REFERENCES subjects(id) ON DELETE CASCADE,
    UNIQUE (user_id, subject_id, week_start_date)
);
CREATE INDEX idx_allocations_user_week ON weekly_allocations(user_id, week_start_date);
CREATE INDEX idx_allocations_subject_week ON weekly_allocations(subject_id, week_start_date);

-- API keys authenticating the chat-platform router caller
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
