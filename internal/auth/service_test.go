package auth

import (
	"context"
	"testing"

	pkgauth "github.com/svetline/svetline-backend/pkg/auth"
	"github.com/svetline/svetline-backend/pkg/config"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS admin_users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "svetline-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "auth-test", Level: zerolog.ErrorLevel})
	svc, err := NewService(NewRepository(setupAuthTestDB(t)), testJWTConfig(), testPasswordConfig(), logg)
	require.NoError(t, err)
	return svc
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAdmin(ctx, "Admin@Svetline.RU", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, "admin@svetline.ru", created.Email)

	result, err := svc.Login(ctx, "admin@svetline.ru", "correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.AdminID)
	assert.Equal(t, "admin@svetline.ru", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, "admin@svetline.ru", "correct-horse-battery")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin@svetline.ru", "wrong-password")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "ghost@svetline.ru", "whatever-pass")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateAdmin(context.Background(), "admin@svetline.ru", "short")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
