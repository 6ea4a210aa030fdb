// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for go-meal-log.
// It is populated by merging environment variables, command-line flags, and
// an optional JSON file (see [GetStructuredConfig]).
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: session token verification and
	// the application version string.
	App App `envPrefix:"APP_"`

	// Storage holds the local persistence settings: the embedded SQLite
	// database and the mirror directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Remote holds the remote backend settings: the metadata database DSN
	// and the S3-compatible blob store. All fields empty means the remote
	// path is not configured and only local storage is available.
	Remote Remote `envPrefix:"REMOTE_"`

	// Server holds network settings for the HTTP API server.
	Server Server `envPrefix:"SERVER_"`

	// Photo holds image compression bounds applied before a photo is stored.
	Photo Photo `envPrefix:"PHOTO_"`

	// JSONFilePath is the optional path to a JSON configuration file merged
	// on top of env and flag values. Populated via the CONFIG environment
	// variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenVerifyKey is the HMAC secret shared with the auth provider, used
	// to verify session access tokens.
	// Env: APP_TOKEN_VERIFY_KEY
	TokenVerifyKey string `env:"TOKEN_VERIFY_KEY"`

	// TokenIssuer is the expected "iss" claim of session tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds the embedded SQLite database settings.
	DB ClientDB `envPrefix:"DB_"`

	// Mirror holds the directory-mirror settings.
	Mirror Mirror `envPrefix:"MIRROR_"`
}

// ClientDB holds the embedded database settings.
type ClientDB struct {
	// Path is the SQLite database file path. ":memory:" opens an in-memory
	// database, useful for tests.
	// Env: STORAGE_DB_PATH
	Path string `env:"PATH"`
}

// Mirror holds the directory-mirror settings. The mirror is active if and
// only if Dir is non-empty; an empty Dir means the user has not granted a
// target directory.
type Mirror struct {
	// Dir is the user-granted directory the mirror file is written to.
	// Env: STORAGE_MIRROR_DIR
	Dir string `env:"DIR"`
}

// Remote holds the remote backend settings.
type Remote struct {
	// DSN is the PostgreSQL connection string for the metadata table.
	// Env: REMOTE_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// S3 holds the blob store settings.
	S3 S3 `envPrefix:"S3_"`
}

// S3 holds settings for the S3-compatible blob store that keeps photo
// payloads. Endpoint supports MinIO and other self-hosted deployments.
type S3 struct {
	// Region is the AWS region name.
	// Env: REMOTE_S3_REGION
	Region string `env:"REGION"`

	// Bucket is the bucket holding photo blobs.
	// Env: REMOTE_S3_BUCKET
	Bucket string `env:"BUCKET"`

	// Endpoint is an optional custom endpoint URL (MinIO etc.). Empty means
	// the default AWS endpoint resolution.
	// Env: REMOTE_S3_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// AccessKey and SecretKey are static credentials for the blob store.
	// Env: REMOTE_S3_ACCESS_KEY / REMOTE_S3_SECRET_KEY
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`

	// SignedURLTTL is the validity window of presigned photo read URLs.
	// Defaults to one hour when unset.
	// Env: REMOTE_S3_SIGNED_URL_TTL
	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL"`
}

// Server holds network settings for the inbound HTTP API.
type Server struct {
	// HTTPAddress is the TCP listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Photo holds image compression bounds. Zero values fall back to the
// compressor defaults (800x800, quality 80).
type Photo struct {
	// MaxWidth and MaxHeight bound the stored photo's pixel dimensions.
	// Env: PHOTO_MAX_WIDTH / PHOTO_MAX_HEIGHT
	MaxWidth  int `env:"MAX_WIDTH"`
	MaxHeight int `env:"MAX_HEIGHT"`

	// Quality is the JPEG re-encoding quality, 1-100.
	// Env: PHOTO_QUALITY
	Quality int `env:"QUALITY"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (later sources fill fields still unset by earlier ones):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
