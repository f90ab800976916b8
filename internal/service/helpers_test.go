package service

import (
	"errors"
	"testing"
	"time"

	"neuroflow/internal/database"
	"neuroflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Email: name + "@example.com", Username: name, Password: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

// fixedClock pins "now" for deterministic day arithmetic.
func fixedClock(now time.Time) Clock {
	return Clock{Now: func() time.Time { return now }, Location: time.UTC}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func ptr[T any](v T) *T { return &v }
