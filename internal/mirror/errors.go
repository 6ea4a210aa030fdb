package mirror

import "errors"

var (
	// ErrPermissionDenied is returned when no directory has been granted or
	// the granted directory is no longer writable.
	ErrPermissionDenied = errors.New("mirror directory access denied")

	// ErrInvalidFormat is returned when an imported file does not carry the
	// expected export schema (missing top-level entries array or
	// undecodable entry payloads).
	ErrInvalidFormat = errors.New("invalid export file format")
)
