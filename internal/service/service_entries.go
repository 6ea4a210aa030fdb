// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package service provides the unified access facade over the local and
// remote entry stores. The backend is selected once, at construction, from a
// capability descriptor; callers never pass routing flags per operation.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/remote"
	"github.com/knagano/go-meal-log/internal/store"
	"github.com/knagano/go-meal-log/internal/utils"
	"github.com/knagano/go-meal-log/internal/validators"
	"github.com/knagano/go-meal-log/models"
)

// Capabilities describes what the caller's environment provides: an
// authenticated session and a configured remote store unlock the remote
// backend, everything else runs against the local store.
type Capabilities struct {
	// Session is the caller's verified session, nil when unauthenticated.
	Session *models.Session

	// Remote is the remote repository, nil when the backend is not
	// configured.
	Remote RemoteRepository
}

// remoteSelected reports whether the capability set routes to the remote
// backend: an authenticated session is both necessary and sufficient.
func (c Capabilities) remoteSelected() bool {
	return c.Session != nil && c.Session.Authenticated
}

// EntryService is the unified facade over meal entries. It owns id and
// timestamp generation, validation, photo compression and mirror-sync
// triggering; persistence is delegated to the selected backend.
type EntryService struct {
	backend    Backend
	repo       store.EntryRepository
	local      bool
	compressor PhotoCompressor
	syncer     Syncer
	validator  validators.Validator
	idGen      *utils.UUIDGenerator
	now        func() time.Time

	logger *logger.Logger
}

// NewEntryService selects the backend from caps and wires the facade.
// The local repository is always required (imports target it even when the
// remote backend is selected). An authenticated session without a configured
// remote store is rejected with [remote.ErrNotConfigured]. compressor and
// syncer are optional.
func NewEntryService(caps Capabilities, local store.EntryRepository, compressor PhotoCompressor, syncer Syncer, log *logger.Logger) (*EntryService, error) {
	if local == nil {
		return nil, ErrNoLocalRepository
	}

	var backend Backend = NewLocalBackend(local)
	if caps.remoteSelected() {
		if caps.Remote == nil {
			return nil, remote.ErrNotConfigured
		}
		backend = NewRemoteBackend(caps.Remote, caps.Session.UserID)
	}

	return &EntryService{
		backend:    backend,
		repo:       local,
		local:      !caps.remoteSelected(),
		compressor: compressor,
		syncer:     syncer,
		validator:  validators.NewFoodEntryValidator(),
		idGen:      utils.NewUUIDGenerator(),
		now:        time.Now,
		logger:     log,
	}, nil
}

// Add persists a new entry. Missing id, created-at and meal type are filled
// in (generated UUID, current epoch millis, the default meal type); a raw
// photo stream is compressed before storage.
func (s *EntryService) Add(ctx context.Context, entry models.FoodEntry, rawPhoto io.Reader) (models.FoodEntry, error) {
	if entry.ID == "" {
		entry.ID = s.idGen.Generate()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = s.now().UnixMilli()
	}
	if entry.MealType == "" {
		entry.MealType = models.DefaultMealType
	}

	if err := s.validator.Validate(ctx, entry); err != nil {
		return models.FoodEntry{}, fmt.Errorf("validate entry: %w", err)
	}

	if err := s.attachPhoto(&entry, rawPhoto); err != nil {
		return models.FoodEntry{}, err
	}

	if err := s.backend.Add(ctx, entry); err != nil {
		return models.FoodEntry{}, err
	}

	s.scheduleSync()
	return entry, nil
}

// Get returns one entry by id.
func (s *EntryService) Get(ctx context.Context, id string) (models.FoodEntry, error) {
	return s.backend.Get(ctx, id)
}

// Update replaces the stored entry. A raw photo stream is compressed before
// storage; a nil stream keeps whatever Photo the entry carries.
func (s *EntryService) Update(ctx context.Context, entry models.FoodEntry, rawPhoto io.Reader) (models.FoodEntry, error) {
	if entry.MealType == "" {
		entry.MealType = models.DefaultMealType
	}

	if err := s.validator.Validate(ctx, entry); err != nil {
		return models.FoodEntry{}, fmt.Errorf("validate entry: %w", err)
	}

	if err := s.attachPhoto(&entry, rawPhoto); err != nil {
		return models.FoodEntry{}, err
	}

	if err := s.backend.Update(ctx, entry); err != nil {
		return models.FoodEntry{}, err
	}

	s.scheduleSync()
	return entry, nil
}

// Delete removes the entry by id. Deleting an absent id is a no-op.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return err
	}

	s.scheduleSync()
	return nil
}

// ListAll returns all entries, newest date first.
func (s *EntryService) ListAll(ctx context.Context) ([]models.FoodEntry, error) {
	return s.backend.ListAll(ctx)
}

// Export serializes the full entry set into the export envelope.
func (s *EntryService) Export(ctx context.Context) (models.ExportFile, error) {
	entries, err := s.backend.ListAll(ctx)
	if err != nil {
		return models.ExportFile{}, fmt.Errorf("list entries for export: %w", err)
	}

	return models.NewExportFile(entries, s.now()), nil
}

// Import deserializes a batch of exported entries and upserts them into the
// local store in a single transaction. Imports always target the local
// store: the mirror file is a local-first artifact.
func (s *EntryService) Import(ctx context.Context, serialized []models.SerializedEntry) (int, error) {
	entries := make([]models.FoodEntry, 0, len(serialized))
	for _, se := range serialized {
		entry, err := se.Deserialize()
		if err != nil {
			return 0, fmt.Errorf("deserialize imported entry: %w", err)
		}
		if err = s.validator.Validate(ctx, entry); err != nil {
			return 0, fmt.Errorf("validate imported entry %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}

	if err := s.repo.ImportMany(ctx, entries); err != nil {
		return 0, err
	}

	if s.syncer != nil {
		s.syncer.Trigger()
	}
	return len(entries), nil
}

// attachPhoto compresses the photo into the entry. The photo arrives either
// as a raw stream or already inlined in entry.Photo (the JSON payload path);
// both go through the compressor so nothing reaches the store uncompressed.
func (s *EntryService) attachPhoto(entry *models.FoodEntry, rawPhoto io.Reader) error {
	if rawPhoto == nil {
		if !entry.HasPhoto() {
			return nil
		}
		rawPhoto = bytes.NewReader(entry.Photo)
	}
	if s.compressor == nil {
		return fmt.Errorf("photo provided but no compressor configured")
	}

	photo, err := s.compressor.Compress(rawPhoto)
	if err != nil {
		return fmt.Errorf("compress photo: %w", err)
	}
	entry.Photo = photo

	return nil
}

// scheduleSync asks the mirror worker for an export after a local mutation.
// Remote mutations never touch the mirror.
func (s *EntryService) scheduleSync() {
	if !s.local || s.syncer == nil {
		return
	}
	s.syncer.Trigger()
}
