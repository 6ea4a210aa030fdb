// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package workers

import (
	"context"
	"sync"

	"github.com/knagano/go-meal-log/internal/logger"
)

// SyncResult reports the outcome of one mirror export. Err is nil on
// success.
type SyncResult struct {
	Err error
}

// MirrorSync runs full-state mirror exports in the background. Triggers are
// coalesced: at most one export is in flight at a time, and any number of
// triggers arriving while one runs collapse into a single follow-up export.
// Export failures are logged and published on Events, never returned to the
// triggering caller.
//
// The worker is idle until Start is called.
type MirrorSync struct {
	mirror Syncable
	logger *logger.Logger

	trigger chan struct{}
	events  chan SyncResult

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMirrorSync creates a MirrorSync driving the given mirror.
func NewMirrorSync(mirror Syncable, log *logger.Logger) *MirrorSync {
	return &MirrorSync{
		mirror:  mirror,
		logger:  log,
		trigger: make(chan struct{}, 1),
		events:  make(chan SyncResult, 16),
	}
}

// Run implements [Worker]. It starts the worker with a background context.
func (s *MirrorSync) Run() {
	s.Start(context.Background())
}

// Start stops any previously running loop, then launches a background
// goroutine serving triggers. The goroutine exits when ctx is cancelled or
// Stop is called.
func (s *MirrorSync) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-s.trigger:
				s.runOnce(loopCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the worker is not running.
func (s *MirrorSync) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Trigger requests a mirror export. It never blocks: when an export is
// already queued the trigger is coalesced into it. A trigger while the
// mirror is disabled is dropped.
func (s *MirrorSync) Trigger() {
	if !s.mirror.Enabled() {
		return
	}
	select {
	case s.trigger <- struct{}{}:
	default:
		// An export is already queued; it will pick up this state too.
	}
}

// Events exposes export outcomes for observers (primarily tests). When no
// one drains the channel, old results are dropped rather than blocking the
// worker.
func (s *MirrorSync) Events() <-chan SyncResult {
	return s.events
}

func (s *MirrorSync) runOnce(ctx context.Context) {
	err := s.mirror.Sync(ctx)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "MirrorSync.runOnce").
			Msg("mirror sync failed")
	}

	select {
	case s.events <- SyncResult{Err: err}:
	default:
	}
}
