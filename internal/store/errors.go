package store

import "errors"

// Sentinel errors returned by repository methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrDuplicateEntry is returned by Add when an entry with the same id
	// already exists in the store.
	ErrDuplicateEntry = errors.New("entry already exists")

	// ErrEntryNotFound is returned by Get when no entry matches the
	// requested id.
	ErrEntryNotFound = errors.New("entry not found")
)
