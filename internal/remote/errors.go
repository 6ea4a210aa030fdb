package remote

import "errors"

// Sentinel errors returned by the remote store. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrNotConfigured is returned when the remote backend (database handle
	// or blob store) is not available.
	ErrNotConfigured = errors.New("remote backend not configured")

	// ErrEntryNotFound is returned when no entry matches the requested id
	// for the calling user.
	ErrEntryNotFound = errors.New("remote entry not found")

	// ErrDuplicateEntry is returned when an insert collides with an
	// existing entry id.
	ErrDuplicateEntry = errors.New("remote entry already exists")
)
