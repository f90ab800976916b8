package service

import (
	"context"
	"testing"
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 100.0, Percent(3, 3))
}

func TestWeeklyTrend_OrderingAndWindows(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	completions := []time.Time{
		now.Add(-time.Hour),            // Week 8
		now.Add(-week),                 // closes the most recent window
		now.Add(-week - time.Second),   // Week 7
		now.Add(-8*week + time.Minute), // Week 1
		now.Add(-8 * week),             // opens the oldest window
		now.Add(-8*week - time.Second), // outside
		now,                            // window end is exclusive
		now.Add(time.Minute),           // future, ignored
	}

	trend := WeeklyTrend(now, completions)
	require.Len(t, trend, 8)
	for i, b := range trend {
		assert.Equal(t, "Week "+string(rune('1'+i)), b.Week)
	}
	assert.Equal(t, 2, trend[0].CompletedTasks, "Week 1 is the oldest window")
	assert.Equal(t, 1, trend[6].CompletedTasks)
	assert.Equal(t, 2, trend[7].CompletedTasks, "Week 8 is the most recent window")

	total := 0
	for _, b := range trend {
		total += b.CompletedTasks
	}
	assert.Equal(t, 5, total)
}

func TestDailyStreak(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	clock := fixedClock(today.Add(15 * time.Hour))
	key := func(offset int) string { return clock.DayKey(today.AddDate(0, 0, offset)) }

	tests := []struct {
		name string
		days []int
		max  int
		want int
	}{
		{"three consecutive days", []int{0, -1, -2}, 100, 3},
		{"gap stops the walk", []int{0, -1, -3, -4}, 100, 2},
		{"nothing today", []int{-1, -2, -3}, 100, 0},
		{"no data", nil, 100, 0},
		{"bounded by lookback", []int{0, -1, -2, -3, -4}, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := map[string]struct{}{}
			for _, d := range tt.days {
				days[key(d)] = struct{}{}
			}
			assert.Equal(t, tt.want, DailyStreak(clock, today, days, tt.max))
		})
	}
}

func seedTask(t *testing.T, repo repository.TaskRepository, task models.Task) models.Task {
	t.Helper()
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	require.NoError(t, repo.Create(context.Background(), &task))
	return task
}

func TestAnalyticsService_Overview(t *testing.T) {
	db := setupSQLiteDB(t)
	tasks := repository.NewTaskRepository(db)
	habits := repository.NewHabitRepository(db)
	now := time.Now().UTC()
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(db), fixedClock(now), 0)
	ctx := context.Background()

	empty := createUser(t, db, "empty")
	overview, err := svc.Overview(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), overview.TotalTasks)
	assert.Equal(t, 0.0, overview.CompletionRate)
	assert.Equal(t, 0.0, overview.WeeklyCompletionRate)
	assert.Equal(t, 0.0, overview.HabitConsistency)

	user := createUser(t, db, "busy")
	old := now.AddDate(0, 0, -10)
	yesterday := now.AddDate(0, 0, -1)

	// Created ten days ago, completed yesterday: counts toward completed_this_week only.
	seedTask(t, tasks, models.Task{Title: "old", OwnerID: user.ID, CreatedAt: old, IsCompleted: true, CompletedAt: &yesterday})
	seedTask(t, tasks, models.Task{Title: "new open", OwnerID: user.ID})
	seedTask(t, tasks, models.Task{Title: "new open 2", OwnerID: user.ID})
	seedTask(t, tasks, models.Task{Title: "ancient done", OwnerID: user.ID, CreatedAt: old, IsCompleted: true, CompletedAt: &old})

	habit := &models.Habit{Name: "Read", Category: "learning", TargetFrequency: 5, IsActive: true, OwnerID: user.ID}
	require.NoError(t, habits.Create(ctx, habit))
	_, _, err = habits.UpsertEntry(ctx, habit.ID, now.Truncate(24*time.Hour), models.HabitEntryPatch{Completed: ptr(true)})
	require.NoError(t, err)
	_, _, err = habits.UpsertEntry(ctx, habit.ID, now.Truncate(24*time.Hour).AddDate(0, 0, -1), models.HabitEntryPatch{Completed: ptr(false)})
	require.NoError(t, err)

	overview, err = svc.Overview(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), overview.TotalTasks)
	assert.Equal(t, int64(2), overview.CompletedTasks)
	assert.Equal(t, 50.0, overview.CompletionRate)
	assert.Equal(t, int64(2), overview.TasksThisWeek)
	assert.Equal(t, int64(1), overview.CompletedThisWeek)
	assert.Equal(t, 50.0, overview.WeeklyCompletionRate)
	assert.Equal(t, int64(1), overview.ActiveHabits)
	assert.Equal(t, 50.0, overview.HabitConsistency)
	assert.GreaterOrEqual(t, overview.CompletionRate, 0.0)
	assert.LessOrEqual(t, overview.CompletionRate, 100.0)
}

func TestAnalyticsService_Productivity(t *testing.T) {
	db := setupSQLiteDB(t)
	tasks := repository.NewTaskRepository(db)
	now := time.Now().UTC()
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(db), fixedClock(now), 0)
	ctx := context.Background()
	user := createUser(t, db, "prod")

	recent := now.Add(-2 * 24 * time.Hour)
	older := now.Add(-20 * 24 * time.Hour)
	seedTask(t, tasks, models.Task{Title: "a", Priority: models.PriorityHigh, ActualHours: ptr(3.0), OwnerID: user.ID, IsCompleted: true, CompletedAt: &recent})
	seedTask(t, tasks, models.Task{Title: "b", Priority: models.PriorityHigh, ActualHours: ptr(1.0), OwnerID: user.ID, IsCompleted: true, CompletedAt: &older})
	seedTask(t, tasks, models.Task{Title: "c", Priority: models.PriorityLow, OwnerID: user.ID})

	out, err := svc.Productivity(ctx, user.ID)
	require.NoError(t, err)

	require.Len(t, out.TimeByPriority, 3)
	got := map[models.Priority]float64{}
	for _, row := range out.TimeByPriority {
		got[row.Priority] = row.Hours
	}
	assert.InDelta(t, 4.0, got[models.PriorityHigh], 0.0001)
	assert.Equal(t, 0.0, got[models.PriorityMedium])
	assert.Equal(t, 0.0, got[models.PriorityLow])

	require.Len(t, out.WeeklyTrend, 8)
	assert.Equal(t, "Week 8", out.WeeklyTrend[7].Week)
	assert.Equal(t, 1, out.WeeklyTrend[7].CompletedTasks)
	assert.Equal(t, 1, out.WeeklyTrend[5].CompletedTasks)
}

func TestAnalyticsService_HabitsAndStreaks(t *testing.T) {
	db := setupSQLiteDB(t)
	tasks := repository.NewTaskRepository(db)
	habits := repository.NewHabitRepository(db)
	now := time.Now().UTC()
	clock := fixedClock(now)
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(db), clock, 30)
	ctx := context.Background()
	user := createUser(t, db, "streaky")

	today := clock.Today()
	for offset := 0; offset < 3; offset++ {
		due := today.AddDate(0, 0, -offset).Add(9 * time.Hour)
		seedTask(t, tasks, models.Task{Title: "daily", OwnerID: user.ID, DueDate: &due, IsCompleted: true, CompletedAt: &now})
	}
	gap := today.AddDate(0, 0, -5).Add(9 * time.Hour)
	seedTask(t, tasks, models.Task{Title: "before gap", OwnerID: user.ID, DueDate: &gap, IsCompleted: true, CompletedAt: &now})

	streaks, err := svc.Streaks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, streaks, 1)
	assert.Equal(t, "Daily Tasks", streaks[0].Type)
	assert.Equal(t, 3, streaks[0].CurrentStreak)
	assert.Equal(t, "3 days of completing at least one task", streaks[0].Description)

	other := createUser(t, db, "lapsed")
	yesterday := today.AddDate(0, 0, -1).Add(9 * time.Hour)
	seedTask(t, tasks, models.Task{Title: "yesterday", OwnerID: other.ID, DueDate: &yesterday, IsCompleted: true, CompletedAt: &now})
	streaks, err = svc.Streaks(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streaks[0].CurrentStreak)

	first := &models.Habit{Name: "Read", Category: "learning", TargetFrequency: 5, IsActive: true, OwnerID: user.ID}
	second := &models.Habit{Name: "Walk", Category: "health", TargetFrequency: 7, IsActive: true, OwnerID: user.ID}
	require.NoError(t, habits.Create(ctx, first))
	require.NoError(t, habits.Create(ctx, second))
	for offset, done := range []bool{true, true, false, true} {
		_, _, err := habits.UpsertEntry(ctx, first.ID, today.AddDate(0, 0, -offset), models.HabitEntryPatch{Completed: ptr(done)})
		require.NoError(t, err)
	}

	stats, err := svc.Habits(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Read", stats[0].HabitName)
	assert.Equal(t, int64(4), stats[0].TotalEntries)
	assert.Equal(t, int64(3), stats[0].CompletedEntries)
	assert.Equal(t, 75.0, stats[0].CompletionRate)
	assert.Equal(t, "Walk", stats[1].HabitName)
	assert.Equal(t, 0.0, stats[1].CompletionRate)
}
