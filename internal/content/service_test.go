package content

import (
	"context"
	"encoding/json"
	"testing"

	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS content_blocks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  slot TEXT NOT NULL UNIQUE,
  body TEXT NOT NULL,
  updated_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupContentTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestSaveBlockUpsertsSameSlot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.SaveBlock(ctx, "hero", json.RawMessage(`{"title":"old"}`), "admin@svetline.ru")
	require.NoError(t, err)
	require.NotNil(t, first.UpdatedBy)
	assert.Equal(t, "admin@svetline.ru", *first.UpdatedBy)

	second, err := svc.SaveBlock(ctx, "hero", json.RawMessage(`{"title":"new"}`), "editor@svetline.ru")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"new"}`, string(second.Body))

	blocks, err := svc.ListBlocks(ctx)
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestSaveBlockRejectsUnknownSlot(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveBlock(context.Background(), "sidebar", json.RawMessage(`{}`), "")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSaveBlockRejectsInvalidJSON(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveBlock(context.Background(), "footer", json.RawMessage(`{"broken`), "")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestGetBlockNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetBlock(context.Background(), "footer")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
