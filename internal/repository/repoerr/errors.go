// Package repoerr defines the repository sentinel errors in a leaf package
// so domain packages can match on them without importing repository, which
// itself imports the domain types for its interfaces.
package repoerr

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses to a concurrent writer,
	// such as a second active session for the same user
	ErrConflict = errors.New("conflict: entity was modified concurrently")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
