// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package service

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/mock"
	"github.com/knagano/go-meal-log/internal/photo"
	"github.com/knagano/go-meal-log/internal/remote"
	"github.com/knagano/go-meal-log/internal/validators"
	"github.com/knagano/go-meal-log/models"
)

func authenticatedSession() *models.Session {
	return &models.Session{UserID: "user-1", Authenticated: true, Plan: "premium"}
}

func validEntry() models.FoodEntry {
	return models.FoodEntry{
		ID:        "entry-1",
		Date:      "2026-08-24",
		Time:      "12:30",
		MealType:  models.MealTypeLunch,
		Menu:      "grilled salmon",
		CreatedAt: 1756000000000,
	}
}

func TestNewEntryService_RequiresLocalRepository(t *testing.T) {
	_, err := NewEntryService(Capabilities{}, nil, nil, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrNoLocalRepository)
}

func TestNewEntryService_AuthenticatedWithoutRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)

	_, err := NewEntryService(Capabilities{Session: authenticatedSession()}, repo, nil, nil, logger.Nop())
	assert.ErrorIs(t, err, remote.ErrNotConfigured)
}

func TestNewEntryService_UnauthenticatedIgnoresRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	remoteRepo := mock.NewMockRemoteRepository(ctrl)

	// Remote store configured but no session: everything stays local.
	svc, err := NewEntryService(Capabilities{Remote: remoteRepo}, repo, nil, nil, logger.Nop())
	require.NoError(t, err)

	repo.EXPECT().Get(gomock.Any(), "entry-1").Return(validEntry(), nil)

	_, err = svc.Get(context.Background(), "entry-1")
	require.NoError(t, err)
}

func TestEntryService_Add_FillsDefaultsAndTriggersSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	syncer := mock.NewMockSyncer(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, nil, syncer, logger.Nop())
	require.NoError(t, err)

	var stored models.FoodEntry
	repo.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.FoodEntry) error {
			stored = entry
			return nil
		})
	syncer.EXPECT().Trigger()

	added, err := svc.Add(context.Background(), models.FoodEntry{Date: "2026-08-24"}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, added.ID)
	assert.NotZero(t, added.CreatedAt)
	assert.Equal(t, models.DefaultMealType, added.MealType)
	assert.Equal(t, stored, added)
}

func TestEntryService_Add_CompressesRawPhoto(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	compressor := mock.NewMockPhotoCompressor(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, compressor, nil, logger.Nop())
	require.NoError(t, err)

	compressed := []byte{0xFF, 0xD8, 0xFF}
	compressor.EXPECT().Compress(gomock.Any()).Return(compressed, nil)
	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)

	added, err := svc.Add(context.Background(), validEntry(), bytes.NewReader([]byte("raw image bytes")))
	require.NoError(t, err)
	assert.Equal(t, compressed, added.Photo)
}

func TestEntryService_Add_CompressesInlinePhoto(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, photo.NewCompressor(800, 800, 80), nil, logger.Nop())
	require.NoError(t, err)

	// A photo delivered inline in the entry payload, no raw stream.
	entry := validEntry()
	entry.Photo = encodeJPEG(t, 2000, 1500)

	var stored models.FoodEntry
	repo.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.FoodEntry) error {
			stored = e
			return nil
		})

	_, err = svc.Add(context.Background(), entry, nil)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(stored.Photo))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 800)
	assert.LessOrEqual(t, img.Bounds().Dy(), 800)
}

func TestEntryService_Update_CompressesInlinePhoto(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, photo.NewCompressor(800, 800, 80), nil, logger.Nop())
	require.NoError(t, err)

	entry := validEntry()
	entry.Photo = encodeJPEG(t, 1200, 1600)

	var stored models.FoodEntry
	repo.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.FoodEntry) error {
			stored = e
			return nil
		})

	_, err = svc.Update(context.Background(), entry, nil)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(stored.Photo))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 800)
	assert.LessOrEqual(t, img.Bounds().Dy(), 800)
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 180, G: 90, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestEntryService_Add_InvalidDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, nil, nil, logger.Nop())
	require.NoError(t, err)

	entry := validEntry()
	entry.Date = "24.08.2026"

	_, err = svc.Add(context.Background(), entry, nil)
	assert.ErrorIs(t, err, validators.ErrInvalidDate)
}

func TestEntryService_Add_BackendFailureSkipsSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	syncer := mock.NewMockSyncer(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, nil, syncer, logger.Nop())
	require.NoError(t, err)

	backendErr := errors.New("disk full")
	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(backendErr)

	_, err = svc.Add(context.Background(), validEntry(), nil)
	assert.ErrorIs(t, err, backendErr)
}

func TestEntryService_Update_UpsertsAndTriggersSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	syncer := mock.NewMockSyncer(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, nil, syncer, logger.Nop())
	require.NoError(t, err)

	entry := validEntry()
	repo.EXPECT().Put(gomock.Any(), entry).Return(nil)
	syncer.EXPECT().Trigger()

	updated, err := svc.Update(context.Background(), entry, nil)
	require.NoError(t, err)
	assert.Equal(t, entry, updated)
}

func TestEntryService_Delete_TriggersSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	syncer := mock.NewMockSyncer(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, nil, syncer, logger.Nop())
	require.NoError(t, err)

	repo.EXPECT().Delete(gomock.Any(), "entry-1").Return(nil)
	syncer.EXPECT().Trigger()

	require.NoError(t, svc.Delete(context.Background(), "entry-1"))
}

func TestEntryService_RemoteOperationsNeverTriggerSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	remoteRepo := mock.NewMockRemoteRepository(ctrl)
	syncer := mock.NewMockSyncer(ctrl) // no Trigger expectation

	svc, err := NewEntryService(Capabilities{Session: authenticatedSession(), Remote: remoteRepo}, repo, nil, syncer, logger.Nop())
	require.NoError(t, err)

	entry := validEntry()
	remoteRepo.EXPECT().Add(gomock.Any(), entry, "user-1").Return(nil)
	remoteRepo.EXPECT().Update(gomock.Any(), entry, "user-1").Return(nil)
	remoteRepo.EXPECT().Delete(gomock.Any(), "entry-1", "user-1").Return(nil)

	_, err = svc.Add(context.Background(), entry, nil)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), entry, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), "entry-1"))
}

func TestEntryService_Import_LegacyEntriesTargetLocalStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	remoteRepo := mock.NewMockRemoteRepository(ctrl)
	syncer := mock.NewMockSyncer(ctrl)

	// Even with the remote backend selected, imports land in the local store.
	svc, err := NewEntryService(Capabilities{Session: authenticatedSession(), Remote: remoteRepo}, repo, nil, syncer, logger.Nop())
	require.NoError(t, err)

	serialized := []models.SerializedEntry{
		{ID: "b1", Date: "2024-02-03", MenuName: "older pasta", CreatedAt: 1706930000000},
	}

	var imported []models.FoodEntry
	repo.EXPECT().
		ImportMany(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entries []models.FoodEntry) error {
			imported = entries
			return nil
		})
	syncer.EXPECT().Trigger()

	count, err := svc.Import(context.Background(), serialized)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, imported, 1)
	assert.Equal(t, "older pasta", imported[0].Menu)
	assert.Equal(t, models.MealTypeLunch, imported[0].MealType)
}

func TestEntryService_Import_InvalidEntryRejectsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, nil, nil, logger.Nop())
	require.NoError(t, err)

	serialized := []models.SerializedEntry{
		{ID: "ok", Date: "2024-02-03", CreatedAt: 1},
		{ID: "bad", Date: "not-a-date", CreatedAt: 2},
	}

	_, err = svc.Import(context.Background(), serialized)
	assert.ErrorIs(t, err, validators.ErrInvalidDate)
}

func TestEntryService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)

	svc, err := NewEntryService(Capabilities{}, repo, nil, nil, logger.Nop())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC) }

	repo.EXPECT().ListAll(gomock.Any()).Return([]models.FoodEntry{validEntry()}, nil)

	export, err := svc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.ExportFileVersion, export.Version)
	assert.Equal(t, "2026-08-24T10:00:00Z", export.ExportedAt)
	require.Len(t, export.Entries, 1)
	assert.Equal(t, "entry-1", export.Entries[0].ID)
}
