// Package workers provides the application's background workers, chiefly the
// mirror sync worker that refreshes the directory-mirror file after local
// writes. It also defines the Worker interface and a Workers aggregate that
// runs multiple workers in a unified way.
package workers

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/workers_mock.go -package=mock

// Worker is the interface implemented by any background worker. Run starts
// the worker's execution; implementations are expected to spawn goroutines
// internally and return promptly.
type Worker interface {
	Run()
}

// Syncable is the mirror surface the sync worker drives.
type Syncable interface {
	// Enabled reports whether a mirror target has been granted.
	Enabled() bool

	// Sync performs one full-state export.
	Sync(ctx context.Context) error
}
