// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package http

import (
	"context"
	"io"

	"github.com/knagano/go-meal-log/models"
)

//go:generate mockgen -source=interfaces.go -destination=../../mock/handler_http_mock.go -package=mock

// EntryService is the facade surface the HTTP layer depends on.
type EntryService interface {
	Add(ctx context.Context, entry models.FoodEntry, rawPhoto io.Reader) (models.FoodEntry, error)
	Get(ctx context.Context, id string) (models.FoodEntry, error)
	Update(ctx context.Context, entry models.FoodEntry, rawPhoto io.Reader) (models.FoodEntry, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.FoodEntry, error)
	Import(ctx context.Context, entries []models.SerializedEntry) (int, error)
	Export(ctx context.Context) (models.ExportFile, error)
}
