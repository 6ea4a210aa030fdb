package client

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/knagano/go-meal-log/internal/config"
	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/mirror"
	"github.com/knagano/go-meal-log/internal/store"
	"github.com/knagano/go-meal-log/internal/workers"
)

func TestApp_AwaitMirrorExport_SkipsRemoteBackend(t *testing.T) {
	log := logger.Nop()
	mir := mirror.New(config.Mirror{Dir: t.TempDir()}, nil, log)

	// Remote backend selected: mutations never schedule a mirror export, so
	// the wait must return immediately instead of running into its timeout.
	app := &App{
		mirror:     mir,
		syncWorker: workers.NewMirrorSync(mir, log),
		local:      false,
		logger:     log,
	}

	done := make(chan struct{})
	go func() {
		app.awaitMirrorExport()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waited for a mirror export that was never scheduled")
	}
}

func TestApp_AwaitMirrorExport_WaitsForLocalExport(t *testing.T) {
	log := logger.Nop()
	db := store.NewDB(config.ClientDB{Path: ":memory:"}, log)
	t.Cleanup(func() { _ = db.Close() })
	repo := store.NewEntryRepository(db, log)

	dir := t.TempDir()
	mir := mirror.New(config.Mirror{Dir: dir}, repo, log)
	worker := workers.NewMirrorSync(mir, log)
	worker.Start(context.Background())
	t.Cleanup(worker.Stop)

	app := &App{
		mirror:     mir,
		syncWorker: worker,
		local:      true,
		logger:     log,
	}

	worker.Trigger()
	app.awaitMirrorExport()

	_, err := os.Stat(filepath.Join(dir, mirror.FileName))
	require.NoError(t, err)
}
