// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/models"
)

const entriesTable = "meal_entries"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store mirrors the local entry operation set against the remote backend,
// scoping every query by the caller's user id. Photo payloads live in the
// blob store under "{userID}/{entryID}.jpg"; the metadata row carries only
// the key.
//
// The blob upload and the metadata write are not atomic: Add compensates for
// a metadata failure by best-effort deleting the just-uploaded blob and
// re-returning the original error.
type Store struct {
	db           *sql.DB
	blobs        BlobStore
	photos       PhotoFetcher
	signedURLTTL time.Duration
	logger       *logger.Logger
}

// NewStore wires the remote store. Returns [ErrNotConfigured] when the
// database handle or the blob store is missing.
func NewStore(db *sql.DB, blobs BlobStore, photos PhotoFetcher, signedURLTTL time.Duration, log *logger.Logger) (*Store, error) {
	if db == nil || blobs == nil {
		return nil, ErrNotConfigured
	}
	if signedURLTTL <= 0 {
		signedURLTTL = time.Hour
	}
	return &Store{
		db:           db,
		blobs:        blobs,
		photos:       photos,
		signedURLTTL: signedURLTTL,
		logger:       log,
	}, nil
}

// PhotoKey returns the deterministic blob key for a user's entry photo.
func PhotoKey(userID, entryID string) string {
	return fmt.Sprintf("%s/%s.jpg", userID, entryID)
}

func (s *Store) ready() error {
	if s == nil || s.db == nil || s.blobs == nil {
		return ErrNotConfigured
	}
	return nil
}

// Add uploads the photo blob first (when present), then inserts the
// metadata row. When the insert fails the uploaded blob is deleted again so
// no orphan remains; the original insert error is returned either way.
func (s *Store) Add(ctx context.Context, entry models.FoodEntry, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	row := entry.ToRemote(userID)
	if entry.HasPhoto() {
		key := PhotoKey(userID, entry.ID)
		if err := s.blobs.Put(ctx, key, entry.Photo); err != nil {
			return fmt.Errorf("upload photo for entry %s: %w", entry.ID, err)
		}
		row.PhotoKey = sql.NullString{String: key, Valid: true}
	}

	query, args, err := psql.Insert(entriesTable).
		Columns("id", "user_id", "date", "time", "meal_type", "menu", "photo_key", "created_at").
		Values(row.ID, row.UserID, row.Date, row.Time, string(row.MealType), row.Menu, row.PhotoKey, row.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		if row.PhotoKey.Valid {
			// Compensating rollback; a failure here leaves an orphaned
			// blob, which is accepted.
			if delErr := s.blobs.Delete(ctx, row.PhotoKey.String); delErr != nil {
				log.Warn().
					Err(delErr).
					Str("func", "Store.Add").
					Str("photo_key", row.PhotoKey.String).
					Msg("failed to delete orphaned photo blob")
			}
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("add entry %s: %w", entry.ID, ErrDuplicateEntry)
		}
		return fmt.Errorf("insert entry (id=%s): %w", entry.ID, err)
	}

	return nil
}

// Update replaces the metadata row and reconciles the photo blob: a new
// photo overwrites the blob at the deterministic key, a removed photo
// deletes the existing blob and clears the reference, and an unchanged
// photo preserves the stored reference as-is.
func (s *Store) Update(ctx context.Context, entry models.FoodEntry, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}

	existingKey, err := s.photoKeyFor(ctx, entry.ID, userID)
	if err != nil {
		return err
	}

	row := entry.ToRemote(userID)
	switch {
	case entry.HasPhoto():
		key := PhotoKey(userID, entry.ID)
		if err = s.blobs.Put(ctx, key, entry.Photo); err != nil {
			return fmt.Errorf("upload photo for entry %s: %w", entry.ID, err)
		}
		row.PhotoKey = sql.NullString{String: key, Valid: true}
	case existingKey.Valid:
		if err = s.blobs.Delete(ctx, existingKey.String); err != nil {
			return fmt.Errorf("delete removed photo for entry %s: %w", entry.ID, err)
		}
	}

	query, args, err := psql.Update(entriesTable).
		Set("date", row.Date).
		Set("time", row.Time).
		Set("meal_type", string(row.MealType)).
		Set("menu", row.Menu).
		Set("photo_key", row.PhotoKey).
		Set("created_at", row.CreatedAt).
		Where(sq.Eq{"id": entry.ID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update entry (id=%s): %w", entry.ID, err)
	}

	return nil
}

// Delete removes the photo blob (when one is referenced) before deleting
// the metadata row. Deleting an absent entry is a no-op.
func (s *Store) Delete(ctx context.Context, id string, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}

	existingKey, err := s.photoKeyFor(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil
		}
		return err
	}

	if existingKey.Valid {
		if err = s.blobs.Delete(ctx, existingKey.String); err != nil {
			return fmt.Errorf("delete photo for entry %s: %w", id, err)
		}
	}

	query, args, err := psql.Delete(entriesTable).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete entry (id=%s): %w", id, err)
	}

	return nil
}

// Get returns the entry with the given id for the calling user, resolving
// its photo from the blob store. A photo fetch failure leaves the photo
// empty rather than failing the lookup.
func (s *Store) Get(ctx context.Context, id string, userID string) (models.FoodEntry, error) {
	if err := s.ready(); err != nil {
		return models.FoodEntry{}, err
	}

	query, args, err := s.selectEntries().
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return models.FoodEntry{}, fmt.Errorf("build select query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	remoteRow, err := scanRemoteEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FoodEntry{}, fmt.Errorf("get entry %s: %w", id, ErrEntryNotFound)
		}
		return models.FoodEntry{}, fmt.Errorf("scan entry row: %w", err)
	}

	entry := remoteRow.ToEntry()
	s.resolvePhoto(ctx, &entry, remoteRow.PhotoKey)
	return entry, nil
}

// ListAll returns the user's entries ordered by date descending, then time
// descending with absent times last. Photos are resolved through presigned
// URLs; a failure to fetch one photo is logged and that entry is returned
// without it — the listing itself never fails on photo errors.
func (s *Store) ListAll(ctx context.Context, userID string) ([]models.FoodEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	query, args, err := s.selectEntries().
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date DESC", "time DESC NULLS LAST", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "Store.ListAll").
			Str("user_id", userID).
			Msg("failed to query entries")
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FoodEntry
	for rows.Next() {
		remoteRow, scanErr := scanRemoteEntry(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "Store.ListAll").
				Str("user_id", userID).
				Msg("failed to scan entry row")
			return nil, fmt.Errorf("scan entry row: %w", scanErr)
		}

		entry := remoteRow.ToEntry()
		s.resolvePhoto(ctx, &entry, remoteRow.PhotoKey)
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate entry rows: %w", rowsErr)
	}

	return entries, nil
}

func (s *Store) selectEntries() sq.SelectBuilder {
	return psql.Select("id", "user_id", "date", "time", "meal_type", "menu", "photo_key", "created_at").
		From(entriesTable)
}

func (s *Store) photoKeyFor(ctx context.Context, id, userID string) (sql.NullString, error) {
	query, args, err := psql.Select("photo_key").
		From(entriesTable).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return sql.NullString{}, fmt.Errorf("build photo key query: %w", err)
	}

	var key sql.NullString
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.NullString{}, fmt.Errorf("entry %s: %w", id, ErrEntryNotFound)
		}
		return sql.NullString{}, fmt.Errorf("query photo key (id=%s): %w", id, err)
	}

	return key, nil
}

// resolvePhoto fetches the entry's photo through a presigned URL. Failures
// are logged and leave the photo empty.
func (s *Store) resolvePhoto(ctx context.Context, entry *models.FoodEntry, key sql.NullString) {
	if !key.Valid || s.photos == nil {
		return
	}
	log := logger.FromContext(ctx)

	url, err := s.blobs.PresignGet(ctx, key.String, s.signedURLTTL)
	if err != nil {
		log.Warn().
			Err(err).
			Str("func", "Store.resolvePhoto").
			Str("photo_key", key.String).
			Msg("failed to presign photo url")
		return
	}

	photo, err := s.photos.Fetch(ctx, url)
	if err != nil {
		log.Warn().
			Err(err).
			Str("func", "Store.resolvePhoto").
			Str("photo_key", key.String).
			Msg("failed to fetch photo")
		return
	}

	entry.Photo = photo
}

func scanRemoteEntry(scan func(dest ...any) error) (models.RemoteEntry, error) {
	var (
		row      models.RemoteEntry
		mealType string
	)

	err := scan(
		&row.ID,
		&row.UserID,
		&row.Date,
		&row.Time,
		&mealType,
		&row.Menu,
		&row.PhotoKey,
		&row.CreatedAt,
	)
	if err != nil {
		return models.RemoteEntry{}, err
	}

	row.MealType = models.MealType(mealType)
	return row, nil
}
