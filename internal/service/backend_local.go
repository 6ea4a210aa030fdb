// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package service

import (
	"context"

	"github.com/knagano/go-meal-log/internal/store"
	"github.com/knagano/go-meal-log/models"
)

// LocalBackend routes entry operations to the embedded local repository.
type LocalBackend struct {
	repo store.EntryRepository
}

// NewLocalBackend wraps the local repository as a [Backend].
func NewLocalBackend(repo store.EntryRepository) *LocalBackend {
	return &LocalBackend{repo: repo}
}

func (b *LocalBackend) Add(ctx context.Context, entry models.FoodEntry) error {
	return b.repo.Add(ctx, entry)
}

func (b *LocalBackend) Get(ctx context.Context, id string) (models.FoodEntry, error) {
	return b.repo.Get(ctx, id)
}

// Update maps to the repository's upsert: updating an absent id inserts it,
// matching put semantics.
func (b *LocalBackend) Update(ctx context.Context, entry models.FoodEntry) error {
	return b.repo.Put(ctx, entry)
}

func (b *LocalBackend) Delete(ctx context.Context, id string) error {
	return b.repo.Delete(ctx, id)
}

func (b *LocalBackend) ListAll(ctx context.Context) ([]models.FoodEntry, error) {
	return b.repo.ListAll(ctx)
}
