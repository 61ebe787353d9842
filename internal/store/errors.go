package store

import "errors"

// Predefined errors for common failure scenarios. Call sites wrap
// these with context; errors.Is works through the wrapping.
var (
	// ErrNotFound indicates the target memory id does not exist.
	ErrNotFound = errors.New("memory not found")

	// ErrDuplicateID indicates an insert collided with an existing id.
	ErrDuplicateID = errors.New("duplicate memory id")

	// ErrEmptyContent indicates an ingestion with no content.
	ErrEmptyContent = errors.New("content is required")

	// ErrInvalidLink indicates relation_to and relation_type were
	// not supplied together.
	ErrInvalidLink = errors.New("relation_to and relation_type must be set together")
)
