// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package store provides the always-available local persistence layer: an
// embedded SQLite table of meal entries keyed by id with a secondary ordering
// index on date.
package store

import (
	"context"

	"github.com/knagano/go-meal-log/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntryRepository is the local meal-entry repository.
type EntryRepository interface {
	// Add inserts a new entry. Returns [ErrDuplicateEntry] (wrapped) when an
	// entry with the same id already exists; the store is left unchanged.
	Add(ctx context.Context, entry models.FoodEntry) error

	// Get returns the entry with the given id, or [ErrEntryNotFound].
	Get(ctx context.Context, id string) (models.FoodEntry, error)

	// Put inserts or fully replaces the entry with the same id.
	Put(ctx context.Context, entry models.FoodEntry) error

	// Delete removes the entry with the given id. Deleting an absent id is
	// a no-op, not an error.
	Delete(ctx context.Context, id string) error

	// ListAll returns all entries ordered by date descending, then time
	// descending. Entries without a time sort as if their time were "00:00".
	ListAll(ctx context.Context) ([]models.FoodEntry, error)

	// Clear drops all entries.
	Clear(ctx context.Context) error

	// ImportMany upserts a batch of entries in a single transaction:
	// either all entries become visible or none do.
	ImportMany(ctx context.Context, entries []models.FoodEntry) error
}
