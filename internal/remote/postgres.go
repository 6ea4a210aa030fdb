package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/knagano/go-meal-log/internal/config"
	"github.com/knagano/go-meal-log/internal/logger"
)

// NewConnectPostgres opens the remote metadata database via the pgx stdlib
// driver and verifies the connection with a ping.
func NewConnectPostgres(ctx context.Context, cfg config.Remote, log *logger.Logger) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("empty remote DSN: %w", ErrNotConfigured)
	}

	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to remote database")

	return conn, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate entry id).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
