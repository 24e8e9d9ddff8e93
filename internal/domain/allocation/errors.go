package allocation

import "errors"

var (
	// ErrAllocationNotFound indicates no allocation exists for the subject
	// and week, or the subject itself doesn't exist.
	ErrAllocationNotFound = errors.New("allocation not found")
	// ErrInvalidInput indicates missing identifiers or negative hours.
	ErrInvalidInput = errors.New("invalid allocation input")
)
