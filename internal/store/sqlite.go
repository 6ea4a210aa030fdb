package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/knagano/go-meal-log/internal/config"
	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/migrations"
)

// DB wraps the embedded SQLite handle. The connection is opened lazily on
// first use and memoized: concurrent first callers are serialised by a
// sync.Once guard, and every later call reuses the same handle.
type DB struct {
	path   string
	logger *logger.Logger

	once    sync.Once
	db      *sql.DB
	openErr error
}

// NewDB constructs a DB bound to the SQLite file in cfg.Path without opening
// it. ":memory:" selects an in-memory database.
func NewDB(cfg config.ClientDB, log *logger.Logger) *DB {
	return &DB{path: cfg.Path, logger: log}
}

// Handle returns the shared *sql.DB, opening the database and running
// pending migrations exactly once per DB object lifetime. An open failure is
// memoized as well: all subsequent calls return the same error.
func (d *DB) Handle(ctx context.Context) (*sql.DB, error) {
	d.once.Do(func() {
		d.db, d.openErr = d.open(ctx)
	})
	return d.db, d.openErr
}

// Close closes the underlying handle if it was ever opened.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) open(ctx context.Context) (*sql.DB, error) {
	if d.path != ":memory:" {
		if err := createLocalDBFileIfNotExists(d.path); err != nil {
			d.logger.Err(err).Str("func", "DB.open").Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", d.path)
	if err != nil {
		d.logger.Err(err).Str("func", "DB.open").Msg("error opening database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// A single connection keeps an in-memory database alive and serialises
	// writers on a file-backed one.
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		d.logger.Err(err).Str("func", "DB.open").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn); err != nil {
		d.logger.Err(err).Str("func", "DB.open").Msg("migration failed")
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	d.logger.Debug().Str("func", "DB.open").Msg("connected to local database")
	return conn, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		dir := filepath.Dir(dbFile)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB directory: %w", err)
			}
		}
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

// isConstraintViolation reports whether err is an SQLite constraint failure,
// e.g. a primary-key collision on insert.
func isConstraintViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	return false
}
