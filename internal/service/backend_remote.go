// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package service

import (
	"context"

	"github.com/knagano/go-meal-log/models"
)

// RemoteBackend binds the remote store to one user's id so the facade can
// treat it like any other [Backend].
type RemoteBackend struct {
	repo   RemoteRepository
	userID string
}

// NewRemoteBackend wraps the remote repository scoped to userID.
func NewRemoteBackend(repo RemoteRepository, userID string) *RemoteBackend {
	return &RemoteBackend{repo: repo, userID: userID}
}

func (b *RemoteBackend) Add(ctx context.Context, entry models.FoodEntry) error {
	return b.repo.Add(ctx, entry, b.userID)
}

func (b *RemoteBackend) Get(ctx context.Context, id string) (models.FoodEntry, error) {
	return b.repo.Get(ctx, id, b.userID)
}

func (b *RemoteBackend) Update(ctx context.Context, entry models.FoodEntry) error {
	return b.repo.Update(ctx, entry, b.userID)
}

func (b *RemoteBackend) Delete(ctx context.Context, id string) error {
	return b.repo.Delete(ctx, id, b.userID)
}

func (b *RemoteBackend) ListAll(ctx context.Context) ([]models.FoodEntry, error) {
	return b.repo.ListAll(ctx, b.userID)
}
