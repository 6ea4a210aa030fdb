// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package mirror maintains an optional full-state JSON export of the local
// entry set in a user-granted directory, and provides the manual
// export/import routines that share the same file schema.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/knagano/go-meal-log/internal/config"
	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/store"
	"github.com/knagano/go-meal-log/models"
)

// FileName is the well-known mirror file name inside the granted directory.
const FileName = "meal-entries.json"

// Mirror exports the full local entry set into a granted directory. The
// directory grant is re-verified before every access; Sync overwrites the
// mirror file wholesale rather than editing it incrementally.
type Mirror struct {
	dir    string
	repo   store.EntryRepository
	logger *logger.Logger

	now func() time.Time
}

// New constructs a Mirror targeting cfg.Dir. An empty Dir means no directory
// has been granted; Enabled reports false and Sync fails with
// [ErrPermissionDenied].
func New(cfg config.Mirror, repo store.EntryRepository, log *logger.Logger) *Mirror {
	return &Mirror{
		dir:    cfg.Dir,
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Enabled reports whether a target directory has been granted.
func (m *Mirror) Enabled() bool {
	return m.dir != ""
}

// EnsurePermission re-verifies that the granted directory is reachable and
// writable. It is called before every mirror access rather than trusting a
// previously successful check. A missing directory is re-created (the grant
// covers the path, not the inode). Returns [ErrPermissionDenied] (wrapped)
// when access is not possible.
func (m *Mirror) EnsurePermission() error {
	if m.dir == "" {
		return fmt.Errorf("no directory granted: %w", ErrPermissionDenied)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("directory %s not reachable: %w", m.dir, ErrPermissionDenied)
	}

	// A write probe is the only portable way to verify the grant still holds.
	probe := filepath.Join(m.dir, ".mirror-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("directory %s not writable: %w", m.dir, ErrPermissionDenied)
	}
	_ = os.Remove(probe)

	return nil
}

// Sync reads the full entry set from the local store, serializes it, and
// atomically overwrites the mirror file (create-if-absent). Callers treat
// this as best effort; the sync worker logs failures without surfacing them
// to the triggering operation.
func (m *Mirror) Sync(ctx context.Context) error {
	if err := m.EnsurePermission(); err != nil {
		return err
	}

	entries, err := m.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("read entries for mirror sync: %w", err)
	}

	payload, err := json.MarshalIndent(models.NewExportFile(entries, m.now()), "", "  ")
	if err != nil {
		return fmt.Errorf("encode mirror file: %w", err)
	}

	target := filepath.Join(m.dir, FileName)
	tmp := target + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write mirror file: %w", err)
	}
	if err = os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace mirror file: %w", err)
	}

	m.logger.Debug().
		Str("func", "Mirror.Sync").
		Int("entries", len(entries)).
		Msg("mirror file refreshed")

	return nil
}

// LoadFromDirectory parses the mirror file back into entries. A missing file
// yields an empty list, not an error; malformed JSON is a hard failure.
func (m *Mirror) LoadFromDirectory() ([]models.FoodEntry, error) {
	if err := m.EnsurePermission(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(m.dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.FoodEntry{}, nil
		}
		return nil, fmt.Errorf("read mirror file: %w", err)
	}

	return parseExport(data)
}

// ExportTo serializes entries into w using the mirror file schema. It works
// regardless of the directory grant, backing the manual download flow.
func (m *Mirror) ExportTo(w io.Writer, entries []models.FoodEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(models.NewExportFile(entries, m.now())); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ImportFromFile parses an arbitrary uploaded file using the mirror file
// schema. The top-level "entries" array must be present, otherwise
// [ErrInvalidFormat] is returned; legacy entries (menuName, no mealType) are
// accepted.
func ImportFromFile(r io.Reader) ([]models.FoodEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return parseExport(data)
}

// importEnvelope distinguishes an absent "entries" key from an empty one.
type importEnvelope struct {
	Version int                       `json:"version"`
	Entries *[]models.SerializedEntry `json:"entries"`
}

func parseExport(data []byte) ([]models.FoodEntry, error) {
	var envelope importEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse export file: %w", err)
	}
	if envelope.Entries == nil {
		return nil, fmt.Errorf("missing entries array: %w", ErrInvalidFormat)
	}

	entries := make([]models.FoodEntry, 0, len(*envelope.Entries))
	for _, s := range *envelope.Entries {
		entry, err := s.Deserialize()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrInvalidFormat)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
