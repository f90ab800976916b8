package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxHandlerAddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewTextHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithUserID(ctx, 7)
	logger.InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "user_id=7")
}

func TestContextMiddlewarePropagatesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.UserContext().Value(RequestIDKey).(string)
		return c.SendString(rid)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", body.String())
}

func TestStructuredLoggerPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})
	t.Cleanup(func() { Logger = prev })

	app := fiber.New()
	app.Use(StructuredLogger())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Contains(t, buf.String(), `"path":"/ping"`)
	assert.Contains(t, buf.String(), `"status":418`)
}
