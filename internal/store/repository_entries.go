package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/models"
)

type entryRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewEntryRepository returns the SQLite-backed [EntryRepository]. The
// underlying database is opened lazily on the first operation.
func NewEntryRepository(db *DB, log *logger.Logger) EntryRepository {
	return &entryRepository{db: db, logger: log}
}

func (r *entryRepository) Add(ctx context.Context, entry models.FoodEntry) error {
	log := logger.FromContext(ctx)

	handle, err := r.db.Handle(ctx)
	if err != nil {
		return err
	}

	_, err = handle.ExecContext(ctx, addEntry, entryArgs(entry)...)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("add entry %s: %w", entry.ID, ErrDuplicateEntry)
		}
		log.Err(err).
			Str("func", "entryRepository.Add").
			Str("entry_id", entry.ID).
			Msg("failed to insert entry")
		return fmt.Errorf("failed to insert entry (id=%s): %w", entry.ID, err)
	}

	return nil
}

func (r *entryRepository) Get(ctx context.Context, id string) (models.FoodEntry, error) {
	log := logger.FromContext(ctx)

	handle, err := r.db.Handle(ctx)
	if err != nil {
		return models.FoodEntry{}, err
	}

	row := handle.QueryRowContext(ctx, getEntry, id)
	entry, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FoodEntry{}, fmt.Errorf("get entry %s: %w", id, ErrEntryNotFound)
		}
		log.Err(err).
			Str("func", "entryRepository.Get").
			Str("entry_id", id).
			Msg("failed to scan entry row")
		return models.FoodEntry{}, fmt.Errorf("failed to scan entry row: %w", err)
	}

	return entry, nil
}

func (r *entryRepository) Put(ctx context.Context, entry models.FoodEntry) error {
	log := logger.FromContext(ctx)

	handle, err := r.db.Handle(ctx)
	if err != nil {
		return err
	}

	_, err = handle.ExecContext(ctx, putEntry, entryArgs(entry)...)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.Put").
			Str("entry_id", entry.ID).
			Msg("failed to upsert entry")
		return fmt.Errorf("failed to upsert entry (id=%s): %w", entry.ID, err)
	}

	return nil
}

func (r *entryRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	handle, err := r.db.Handle(ctx)
	if err != nil {
		return err
	}

	// Deleting an id that does not exist is a no-op.
	_, err = handle.ExecContext(ctx, deleteEntry, id)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.Delete").
			Str("entry_id", id).
			Msg("failed to delete entry")
		return fmt.Errorf("failed to delete entry (id=%s): %w", id, err)
	}

	return nil
}

func (r *entryRepository) ListAll(ctx context.Context) ([]models.FoodEntry, error) {
	log := logger.FromContext(ctx)

	handle, err := r.db.Handle(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := handle.QueryContext(ctx, listAllEntries)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.ListAll").
			Msg("failed to query entries")
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FoodEntry
	for rows.Next() {
		entry, scanErr := scanEntry(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "entryRepository.ListAll").
				Msg("failed to scan entry row")
			return nil, fmt.Errorf("failed to scan entry row: %w", scanErr)
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "entryRepository.ListAll").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating entry rows: %w", rowsErr)
	}

	return entries, nil
}

func (r *entryRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx)

	handle, err := r.db.Handle(ctx)
	if err != nil {
		return err
	}

	if _, err = handle.ExecContext(ctx, clearEntries); err != nil {
		log.Err(err).
			Str("func", "entryRepository.Clear").
			Msg("failed to clear entries")
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	return nil
}

func (r *entryRepository) ImportMany(ctx context.Context, entries []models.FoodEntry) error {
	log := logger.FromContext(ctx)

	handle, err := r.db.Handle(ctx)
	if err != nil {
		return err
	}

	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.ImportMany").
			Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		if _, err = tx.ExecContext(ctx, putEntry, entryArgs(entry)...); err != nil {
			log.Err(err).
				Str("func", "entryRepository.ImportMany").
				Str("entry_id", entry.ID).
				Msg("failed to upsert entry in batch")
			return fmt.Errorf("failed to import entry (id=%s): %w", entry.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "entryRepository.ImportMany").
			Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit import transaction: %w", err)
	}

	return nil
}

func entryArgs(entry models.FoodEntry) []any {
	return []any{
		entry.ID,
		entry.Date,
		nullableString(entry.Time),
		string(entry.MealType),
		nullableString(entry.Menu),
		entry.Photo,
		entry.CreatedAt,
	}
}

func scanEntry(scan func(dest ...any) error) (models.FoodEntry, error) {
	var (
		entry    models.FoodEntry
		mealTime sql.NullString
		menu     sql.NullString
		mealType string
	)

	err := scan(
		&entry.ID,
		&entry.Date,
		&mealTime,
		&mealType,
		&menu,
		&entry.Photo,
		&entry.CreatedAt,
	)
	if err != nil {
		return models.FoodEntry{}, err
	}

	entry.Time = mealTime.String
	entry.Menu = menu.String
	entry.MealType = models.MealType(mealType)
	if entry.MealType == "" {
		entry.MealType = models.DefaultMealType
	}

	return entry, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
