// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package config

import (
	"errors"
	"time"
)

const (
	defaultHTTPAddress    = "localhost:8080"
	defaultRequestTimeout = 30 * time.Second
	defaultSignedURLTTL   = time.Hour
	defaultDBPath         = "meal-log.db"
)

// applyDefaults fills fields that remained unset after all sources were
// merged.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Remote.S3.SignedURLTTL <= 0 {
		cfg.Remote.S3.SignedURLTTL = defaultSignedURLTTL
	}
	if cfg.Storage.DB.Path == "" {
		cfg.Storage.DB.Path = defaultDBPath
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The remote backend is optional, but when partially configured the missing
// half would only surface as a confusing runtime failure, so a DSN without a
// bucket (or vice versa) is rejected here.
func (cfg *StructuredConfig) validate() error {
	remoteDB := cfg.Remote.DSN != ""
	remoteBlob := cfg.Remote.S3.Bucket != ""
	if remoteDB != remoteBlob {
		return errors.New("remote backend requires both a database DSN and an S3 bucket")
	}

	// Zero means "use the compressor default" and is allowed.
	if cfg.Photo.Quality < 0 || cfg.Photo.Quality > 100 {
		return errors.New("photo quality must be between 0 and 100")
	}

	return nil
}

// RemoteConfigured reports whether the remote backend (metadata database and
// blob store) is fully configured.
func (cfg *StructuredConfig) RemoteConfigured() bool {
	return cfg.Remote.DSN != "" && cfg.Remote.S3.Bucket != ""
}
