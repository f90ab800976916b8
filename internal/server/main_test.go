package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"neuroflow/internal/config"
	"neuroflow/internal/database"
	"neuroflow/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

func newTestConfig() *config.Config {
	return &config.Config{
		Port:                  "0",
		Env:                   "test",
		JWTSecret:             "test-secret-key-that-is-long-enough",
		TokenTTLHours:         1,
		DBDriver:              "sqlite",
		AllowedOrigins:        "http://localhost:3000",
		Timezone:              "UTC",
		StreakMaxLookbackDays: 3650,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	srv, err := NewServerWithDeps(newTestConfig(), db, nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, app: srv.App(), db: db}
}

// login creates an active user directly and returns a bearer token for it.
func (e *testEnv) login(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user := &models.User{Email: name + "@example.com", Username: name, Password: "x", IsActive: true}
	require.NoError(t, e.db.Create(user).Error)
	issued, err := e.srv.authService.IssueToken(user)
	require.NoError(t, err)
	return user, issued.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
