package server

import (
	"fmt"
	"net/http"
	"testing"

	"neuroflow/internal/models"
	"neuroflow/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabitHandlers_QuickLogEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t, "reader")

	resp := env.do(t, http.MethodPost, "/api/habits", token, map[string]any{
		"name": "Read", "category": "Learning", "target_frequency": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	habit := decode[models.Habit](t, resp)

	quickLog := fmt.Sprintf("/api/habits/quick-log?habit_id=%d&completed=true", habit.ID)
	resp = env.do(t, http.MethodPost, quickLog, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[service.QuickLogResult](t, resp)
	assert.Equal(t, "Habit logged for today", first.Message)

	resp = env.do(t, http.MethodPost, quickLog, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[service.QuickLogResult](t, resp)
	assert.Equal(t, "Habit updated for today", second.Message)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/habits/%d/entries", habit.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decode[[]models.HabitEntry](t, resp)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Completed)

	resp = env.do(t, http.MethodGet, "/api/habits/today/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	today := decode[[]service.TodayStatus](t, resp)
	require.Len(t, today, 1)
	assert.Equal(t, habit.ID, today[0].Habit.ID)
	assert.True(t, today[0].Completed)
}

func TestHabitHandlers_QuickLogJSONAndValidation(t *testing.T) {
	env := newTestEnv(t)
	_, owner := env.login(t, "owner")
	_, other := env.login(t, "other")

	resp := env.do(t, http.MethodPost, "/api/habits", owner, map[string]any{
		"name": "Walk", "category": "Health", "target_frequency": 7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	habit := decode[models.Habit](t, resp)

	resp = env.do(t, http.MethodPost, "/api/habits/quick-log", owner, map[string]any{
		"habit_id": habit.ID, "completed": true, "rating": 4, "notes": "park loop",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[service.QuickLogResult](t, resp)
	require.NotNil(t, result.Entry.Rating)
	assert.Equal(t, 4, *result.Entry.Rating)

	resp = env.do(t, http.MethodPost, "/api/habits/quick-log", owner, map[string]any{"completed": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/habits/quick-log?habit_id=%d&completed=maybe", habit.ID), owner, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/habits/quick-log?habit_id=%d&completed=true", habit.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHabitHandlers_EntriesUpsertByDate(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t, "logger")

	resp := env.do(t, http.MethodPost, "/api/habits", token, map[string]any{
		"name": "Stretch", "category": "Health", "target_frequency": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	habit := decode[models.Habit](t, resp)
	path := fmt.Sprintf("/api/habits/%d/entries", habit.ID)

	resp = env.do(t, http.MethodPost, path, token, map[string]any{
		"date": "2026-03-02T08:00:00Z", "completed": true, "notes": "morning", "rating": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	a := decode[models.HabitEntry](t, resp)

	resp = env.do(t, http.MethodPost, path, token, map[string]any{
		"date": "2026-03-02T21:30:00Z", "completed": false, "rating": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b := decode[models.HabitEntry](t, resp)

	assert.Equal(t, a.ID, b.ID)
	assert.False(t, b.Completed)
	require.NotNil(t, b.Notes)
	assert.Equal(t, "morning", *b.Notes)
	assert.Equal(t, 5, *b.Rating)

	resp = env.do(t, http.MethodPost, path, token, map[string]any{
		"date": "2026-03-03T08:00:00Z", "completed": true, "habit_id": habit.ID + 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/habits/%d", habit.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/habits", token, nil)
	assert.Empty(t, decode[[]models.Habit](t, resp))
}

func TestHabitHandlers_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t, "strict")

	resp := env.do(t, http.MethodPost, "/api/habits", token, map[string]any{
		"name": "Too much", "category": "Health", "target_frequency": 8,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/habits", token, map[string]any{"name": "Nameless category"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHabitHandlers_UpdateRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t, "tidy")

	resp := env.do(t, http.MethodPost, "/api/habits", token, map[string]any{
		"name": "Stretch", "category": "Health", "target_frequency": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	habit := decode[models.Habit](t, resp)
	path := fmt.Sprintf("/api/habits/%d", habit.ID)

	resp = env.do(t, http.MethodPut, path, token, map[string]any{"is_active": false})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[models.ErrorResponse](t, resp).Error, "is_active")

	resp = env.do(t, http.MethodPut, path, token, map[string]any{"target_frequency": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Habit](t, resp)
	assert.Equal(t, 5, updated.TargetFrequency)
	assert.True(t, updated.IsActive)
}
