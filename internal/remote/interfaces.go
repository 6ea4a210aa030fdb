// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package remote implements the backend-hosted entry store: a Postgres
// metadata table scoped by user id plus an S3-compatible blob store holding
// photo payloads, read back through time-limited presigned URLs.
package remote

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_mock.go -package=mock

// BlobStore stores photo payloads under deterministic keys.
type BlobStore interface {
	// Put uploads data under key, overwriting any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the blob at key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a signed read URL for key, valid for expires.
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// PhotoFetcher downloads a photo payload from a signed URL.
type PhotoFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
