package session

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist or belongs to
	// another user.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoActiveSession indicates the user has no RUNNING or PAUSED session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrNotRunning indicates a pause was attempted against a session that
	// isn't RUNNING.
	ErrNotRunning = errors.New("session is not running")
	// ErrNotPaused indicates a resume was attempted against a session that
	// isn't PAUSED.
	ErrNotPaused = errors.New("session is not paused")
	// ErrActiveSessionExists indicates a reopen was attempted while another
	// session is RUNNING or PAUSED.
	ErrActiveSessionExists = errors.New("another active session exists")
	// ErrInvalidInput indicates missing or malformed session input.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrInvalidDuration indicates an unparseable or negative duration string.
	ErrInvalidDuration = errors.New("invalid duration")
)
