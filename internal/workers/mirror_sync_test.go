package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knagano/go-meal-log/internal/logger"
)

// blockingMirror counts Sync calls and can hold an export open until
// released, so tests can observe coalescing.
type blockingMirror struct {
	mu      sync.Mutex
	calls   int
	err     error
	enabled bool
	block   chan struct{}
}

func (m *blockingMirror) Enabled() bool { return m.enabled }

func (m *blockingMirror) Sync(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	return m.err
}

func (m *blockingMirror) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func waitEvent(t *testing.T, s *MirrorSync) SyncResult {
	t.Helper()
	select {
	case res := <-s.Events():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sync event")
		return SyncResult{}
	}
}

func TestMirrorSync_TriggerRunsExport(t *testing.T) {
	m := &blockingMirror{enabled: true}
	s := NewMirrorSync(m, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.Trigger()
	res := waitEvent(t, s)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, m.callCount())
}

func TestMirrorSync_FailurePublishedNotReturned(t *testing.T) {
	m := &blockingMirror{enabled: true, err: errors.New("disk full")}
	s := NewMirrorSync(m, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.Trigger()
	res := waitEvent(t, s)
	assert.Error(t, res.Err)
}

func TestMirrorSync_CoalescesTriggers(t *testing.T) {
	m := &blockingMirror{enabled: true, block: make(chan struct{})}
	s := NewMirrorSync(m, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	// First trigger starts an export that blocks inside Sync.
	s.Trigger()
	require.Eventually(t, func() bool { return m.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// A burst of triggers while the export is in flight collapses into one
	// queued follow-up.
	for i := 0; i < 10; i++ {
		s.Trigger()
	}

	close(m.block)
	waitEvent(t, s)
	waitEvent(t, s)

	assert.Equal(t, 2, m.callCount())
}

func TestMirrorSync_TriggerWhileDisabledIsDropped(t *testing.T) {
	m := &blockingMirror{enabled: false}
	s := NewMirrorSync(m, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.Trigger()

	select {
	case <-s.Events():
		t.Fatal("disabled mirror must not sync")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 0, m.callCount())
}

func TestMirrorSync_StopIsIdempotent(t *testing.T) {
	s := NewMirrorSync(&blockingMirror{enabled: true}, logger.Nop())
	s.Stop()

	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestWorkers_RunAll(t *testing.T) {
	m := &blockingMirror{enabled: true}
	s := NewMirrorSync(m, logger.Nop())
	defer s.Stop()

	New(s).Run()

	s.Trigger()
	res := waitEvent(t, s)
	require.NoError(t, res.Err)
}
