// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package remote

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/knagano/go-meal-log/internal/logger"
	"github.com/knagano/go-meal-log/internal/mock"
	"github.com/knagano/go-meal-log/models"
)

const (
	testUserID = "user-1"
	testTTL    = time.Hour
)

var (
	insertQuery   = regexp.QuoteMeta(`INSERT INTO meal_entries (id,user_id,date,time,meal_type,menu,photo_key,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`)
	updateQuery   = regexp.QuoteMeta(`UPDATE meal_entries SET date = $1, time = $2, meal_type = $3, menu = $4, photo_key = $5, created_at = $6 WHERE id = $7 AND user_id = $8`)
	deleteQuery   = regexp.QuoteMeta(`DELETE FROM meal_entries WHERE id = $1 AND user_id = $2`)
	selectQuery   = regexp.QuoteMeta(`SELECT id, user_id, date, time, meal_type, menu, photo_key, created_at FROM meal_entries WHERE id = $1 AND user_id = $2`)
	photoKeyQuery = regexp.QuoteMeta(`SELECT photo_key FROM meal_entries WHERE id = $1 AND user_id = $2`)
	listQuery     = regexp.QuoteMeta(`SELECT id, user_id, date, time, meal_type, menu, photo_key, created_at FROM meal_entries WHERE user_id = $1 ORDER BY date DESC, time DESC NULLS LAST, created_at DESC`)
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *mock.MockBlobStore, *mock.MockPhotoFetcher) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	blobs := mock.NewMockBlobStore(ctrl)
	photos := mock.NewMockPhotoFetcher(ctrl)

	store, err := NewStore(db, blobs, photos, testTTL, logger.Nop())
	require.NoError(t, err)

	return store, dbMock, blobs, photos
}

func testEntry() models.FoodEntry {
	return models.FoodEntry{
		ID:        "entry-1",
		Date:      "2026-08-24",
		Time:      "12:30",
		MealType:  models.MealTypeLunch,
		Menu:      "grilled salmon",
		CreatedAt: 1756000000000,
	}
}

func TestNewStore_NotConfigured(t *testing.T) {
	_, err := NewStore(nil, nil, nil, testTTL, logger.Nop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStore_Add(t *testing.T) {
	store, dbMock, _, _ := newTestStore(t)
	entry := testEntry()

	dbMock.ExpectExec(insertQuery).
		WithArgs(entry.ID, testUserID, entry.Date, entry.Time, "lunch", entry.Menu, nil, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Add(context.Background(), entry, testUserID)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Add_WithPhoto(t *testing.T) {
	store, dbMock, blobs, _ := newTestStore(t)
	entry := testEntry()
	entry.Photo = []byte{0xFF, 0xD8, 0xFF}

	blobs.EXPECT().
		Put(gomock.Any(), "user-1/entry-1.jpg", entry.Photo).
		Return(nil)
	dbMock.ExpectExec(insertQuery).
		WithArgs(entry.ID, testUserID, entry.Date, entry.Time, "lunch", entry.Menu, "user-1/entry-1.jpg", entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Add(context.Background(), entry, testUserID)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Add_RollsBackBlobOnInsertFailure(t *testing.T) {
	store, dbMock, blobs, _ := newTestStore(t)
	entry := testEntry()
	entry.Photo = []byte{0xFF, 0xD8, 0xFF}
	insertErr := errors.New("connection reset")

	blobs.EXPECT().
		Put(gomock.Any(), "user-1/entry-1.jpg", entry.Photo).
		Return(nil)
	dbMock.ExpectExec(insertQuery).
		WillReturnError(insertErr)
	blobs.EXPECT().
		Delete(gomock.Any(), "user-1/entry-1.jpg").
		Return(nil)

	err := store.Add(context.Background(), entry, testUserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, insertErr)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Add_RollbackDeleteFailureKeepsOriginalError(t *testing.T) {
	store, dbMock, blobs, _ := newTestStore(t)
	entry := testEntry()
	entry.Photo = []byte{0xFF, 0xD8, 0xFF}
	insertErr := errors.New("connection reset")

	blobs.EXPECT().
		Put(gomock.Any(), "user-1/entry-1.jpg", entry.Photo).
		Return(nil)
	dbMock.ExpectExec(insertQuery).
		WillReturnError(insertErr)
	blobs.EXPECT().
		Delete(gomock.Any(), "user-1/entry-1.jpg").
		Return(errors.New("blob store unreachable"))

	err := store.Add(context.Background(), entry, testUserID)
	assert.ErrorIs(t, err, insertErr)
}

func TestStore_Add_DuplicateEntry(t *testing.T) {
	store, dbMock, _, _ := newTestStore(t)
	entry := testEntry()

	dbMock.ExpectExec(insertQuery).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := store.Add(context.Background(), entry, testUserID)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestStore_Add_BlobUploadFailureSkipsInsert(t *testing.T) {
	store, dbMock, blobs, _ := newTestStore(t)
	entry := testEntry()
	entry.Photo = []byte{0xFF, 0xD8, 0xFF}

	blobs.EXPECT().
		Put(gomock.Any(), "user-1/entry-1.jpg", entry.Photo).
		Return(errors.New("access denied"))

	err := store.Add(context.Background(), entry, testUserID)
	require.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Update_NewPhotoOverwritesBlob(t *testing.T) {
	store, dbMock, blobs, _ := newTestStore(t)
	entry := testEntry()
	entry.Photo = []byte{0xFF, 0xD8, 0xFF}

	dbMock.ExpectQuery(photoKeyQuery).
		WithArgs(entry.ID, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"photo_key"}).AddRow("user-1/entry-1.jpg"))
	blobs.EXPECT().
		Put(gomock.Any(), "user-1/entry-1.jpg", entry.Photo).
		Return(nil)
	dbMock.ExpectExec(updateQuery).
		WithArgs(entry.Date, entry.Time, "lunch", entry.Menu, "user-1/entry-1.jpg", entry.CreatedAt, entry.ID, testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), entry, testUserID)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Update_RemovedPhotoDeletesBlob(t *testing.T) {
	store, dbMock, blobs, _ := newTestStore(t)
	entry := testEntry()

	dbMock.ExpectQuery(photoKeyQuery).
		WithArgs(entry.ID, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"photo_key"}).AddRow("user-1/entry-1.jpg"))
	blobs.EXPECT().
		Delete(gomock.Any(), "user-1/entry-1.jpg").
		Return(nil)
	dbMock.ExpectExec(updateQuery).
		WithArgs(entry.Date, entry.Time, "lunch", entry.Menu, nil, entry.CreatedAt, entry.ID, testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), entry, testUserID)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Update_NoPhotoEitherSideSkipsBlobStore(t *testing.T) {
	store, dbMock, _, _ := newTestStore(t)
	entry := testEntry()

	dbMock.ExpectQuery(photoKeyQuery).
		WithArgs(entry.ID, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"photo_key"}).AddRow(nil))
	dbMock.ExpectExec(updateQuery).
		WithArgs(entry.Date, entry.Time, "lunch", entry.Menu, nil, entry.CreatedAt, entry.ID, testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), entry, testUserID)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Update_AbsentEntry(t *testing.T) {
	store, dbMock, _, _ := newTestStore(t)
	entry := testEntry()

	dbMock.ExpectQuery(photoKeyQuery).
		WithArgs(entry.ID, testUserID).
		WillReturnError(sql.ErrNoRows)

	err := store.Update(context.Background(), entry, testUserID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, dbMock, blobs, _ := newTestStore(t)

	dbMock.ExpectQuery(photoKeyQuery).
		WithArgs("entry-1", testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"photo_key"}).AddRow("user-1/entry-1.jpg"))
	blobs.EXPECT().
		Delete(gomock.Any(), "user-1/entry-1.jpg").
		Return(nil)
	dbMock.ExpectExec(deleteQuery).
		WithArgs("entry-1", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), "entry-1", testUserID)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Delete_AbsentEntryIsNoop(t *testing.T) {
	store, dbMock, _, _ := newTestStore(t)

	dbMock.ExpectQuery(photoKeyQuery).
		WithArgs("missing", testUserID).
		WillReturnError(sql.ErrNoRows)

	err := store.Delete(context.Background(), "missing", testUserID)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStore_Get_ResolvesPhoto(t *testing.T) {
	store, dbMock, blobs, photos := newTestStore(t)
	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	dbMock.ExpectQuery(selectQuery).
		WithArgs("entry-1", testUserID).
		WillReturnRows(entryRows().
			AddRow("entry-1", testUserID, "2026-08-24", "12:30", "lunch", "grilled salmon", "user-1/entry-1.jpg", int64(1756000000000)))
	blobs.EXPECT().
		PresignGet(gomock.Any(), "user-1/entry-1.jpg", testTTL).
		Return("https://blobs.example/signed", nil)
	photos.EXPECT().
		Fetch(gomock.Any(), "https://blobs.example/signed").
		Return(photo, nil)

	entry, err := store.Get(context.Background(), "entry-1", testUserID)
	require.NoError(t, err)
	assert.Equal(t, "entry-1", entry.ID)
	assert.Equal(t, "2026-08-24", entry.Date)
	assert.Equal(t, "12:30", entry.Time)
	assert.Equal(t, models.MealTypeLunch, entry.MealType)
	assert.Equal(t, "grilled salmon", entry.Menu)
	assert.Equal(t, photo, entry.Photo)
}

func TestStore_Get_NotFound(t *testing.T) {
	store, dbMock, _, _ := newTestStore(t)

	dbMock.ExpectQuery(selectQuery).
		WithArgs("missing", testUserID).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "missing", testUserID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestStore_ListAll_PhotoFetchFailureOmitsPhoto(t *testing.T) {
	store, dbMock, blobs, photos := newTestStore(t)
	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	dbMock.ExpectQuery(listQuery).
		WithArgs(testUserID).
		WillReturnRows(entryRows().
			AddRow("entry-2", testUserID, "2026-08-24", "19:00", "dinner", "curry", "user-1/entry-2.jpg", int64(1756003600000)).
			AddRow("entry-1", testUserID, "2026-08-24", "12:30", "lunch", "grilled salmon", "user-1/entry-1.jpg", int64(1756000000000)).
			AddRow("entry-0", testUserID, "2026-08-23", nil, "breakfast", nil, nil, int64(1755900000000)))
	blobs.EXPECT().
		PresignGet(gomock.Any(), "user-1/entry-2.jpg", testTTL).
		Return("https://blobs.example/entry-2", nil)
	photos.EXPECT().
		Fetch(gomock.Any(), "https://blobs.example/entry-2").
		Return(nil, errors.New("timeout"))
	blobs.EXPECT().
		PresignGet(gomock.Any(), "user-1/entry-1.jpg", testTTL).
		Return("https://blobs.example/entry-1", nil)
	photos.EXPECT().
		Fetch(gomock.Any(), "https://blobs.example/entry-1").
		Return(photo, nil)

	entries, err := store.ListAll(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "entry-2", entries[0].ID)
	assert.Nil(t, entries[0].Photo)
	assert.Equal(t, "entry-1", entries[1].ID)
	assert.Equal(t, photo, entries[1].Photo)
	assert.Equal(t, "entry-0", entries[2].ID)
	assert.Empty(t, entries[2].Time)
	assert.Empty(t, entries[2].Menu)
}

func TestStore_ListAll_Empty(t *testing.T) {
	store, dbMock, _, _ := newTestStore(t)

	dbMock.ExpectQuery(listQuery).
		WithArgs(testUserID).
		WillReturnRows(entryRows())

	entries, err := store.ListAll(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func entryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "date", "time", "meal_type", "menu", "photo_key", "created_at"})
}
