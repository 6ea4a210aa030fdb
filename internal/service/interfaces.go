// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package service

import (
	"context"
	"io"

	"github.com/knagano/go-meal-log/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Backend is the entry store the facade routes to. Exactly one backend is
// selected when the facade is constructed.
type Backend interface {
	Add(ctx context.Context, entry models.FoodEntry) error
	Get(ctx context.Context, id string) (models.FoodEntry, error)
	Update(ctx context.Context, entry models.FoodEntry) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.FoodEntry, error)
}

// RemoteRepository is the user-scoped remote store consumed by the remote
// backend.
type RemoteRepository interface {
	Add(ctx context.Context, entry models.FoodEntry, userID string) error
	Get(ctx context.Context, id string, userID string) (models.FoodEntry, error)
	Update(ctx context.Context, entry models.FoodEntry, userID string) error
	Delete(ctx context.Context, id string, userID string) error
	ListAll(ctx context.Context, userID string) ([]models.FoodEntry, error)
}

// Syncer schedules a background mirror export. Trigger never blocks and
// never reports an error to the caller.
type Syncer interface {
	Trigger()
}

// PhotoCompressor bounds raw photo payloads before storage.
type PhotoCompressor interface {
	Compress(r io.Reader) ([]byte, error)
}
