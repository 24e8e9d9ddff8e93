package repository

import "github.com/radhhh/flae-bot/internal/repository/repoerr"

// The sentinel values live in repoerr so domain packages can reference them
// without creating an import cycle; these are the same error values.
var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = repoerr.ErrNotFound

	// ErrConflict is returned when a write loses to a concurrent writer,
	// such as a second active session for the same user
	ErrConflict = repoerr.ErrConflict

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = repoerr.ErrForeignKeyViolation

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = repoerr.ErrInvalidInput
)
