package memory

import "errors"

var (
	// ErrInvalidQuery indicates an empty or wrong-dimension query vector.
	ErrInvalidQuery = errors.New("invalid query vector")

	// ErrInvalidWeight indicates a merge weight outside [0, 1].
	ErrInvalidWeight = errors.New("merge weight out of range")

	// ErrInconsistentIndex indicates a vector index slot with no mapping row.
	// This signals store corruption and is never swallowed.
	ErrInconsistentIndex = errors.New("vector index slot has no mapping")

	// ErrNotFound indicates a lookup of a nonexistent memory id.
	ErrNotFound = errors.New("memory not found")
)
