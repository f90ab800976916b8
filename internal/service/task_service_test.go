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

type milestoneCheckerStub struct {
	visible map[uint]bool
}

func (s milestoneCheckerStub) MilestoneVisible(_ context.Context, _ uint, id uint) (bool, error) {
	return s.visible[id], nil
}

func newTaskService(t *testing.T, now time.Time) (*TaskService, *models.User) {
	t.Helper()
	db := setupSQLiteDB(t)
	user := createUser(t, db, "tasker")
	checker := milestoneCheckerStub{visible: map[uint]bool{7: true}}
	return NewTaskService(repository.NewTaskRepository(db), checker, fixedClock(now)), user
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc, user := newTaskService(t, time.Now().UTC())
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateTaskInput
	}{
		{"blank title", CreateTaskInput{UserID: user.ID, Title: "  "}},
		{"unknown priority", CreateTaskInput{UserID: user.ID, Title: "x", Priority: "urgent"}},
		{"negative estimate", CreateTaskInput{UserID: user.ID, Title: "x", EstimatedHours: ptr(-1.0)}},
		{"hidden milestone", CreateTaskInput{UserID: user.ID, Title: "x", MilestoneID: ptr(uint(8))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assertCode(t, err, models.CodeValidation)
		})
	}

	task, err := svc.Create(ctx, CreateTaskInput{UserID: user.ID, Title: "Write docs", MilestoneID: ptr(uint(7))})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
}

func TestTaskService_UpdatePartial(t *testing.T) {
	svc, user := newTaskService(t, time.Now().UTC())
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateTaskInput{UserID: user.ID, Title: "Draft", Description: "keep me", Priority: "low"})
	require.NoError(t, err)

	high := models.PriorityHigh
	updated, err := svc.Update(ctx, UpdateTaskInput{UserID: user.ID, TaskID: task.ID, Patch: models.TaskPatch{Priority: &high}})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "keep me", updated.Description)

	bad := models.Priority("urgent")
	_, err = svc.Update(ctx, UpdateTaskInput{UserID: user.ID, TaskID: task.ID, Patch: models.TaskPatch{Priority: &bad}})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.Update(ctx, UpdateTaskInput{UserID: user.ID + 1, TaskID: task.ID, Patch: models.TaskPatch{Title: ptr("stolen")}})
	assertCode(t, err, models.CodeNotFound)
}

func TestTaskService_Complete(t *testing.T) {
	now := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)
	svc, user := newTaskService(t, now)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateTaskInput{UserID: user.ID, Title: "Ship"})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, user.ID, task.ID, ptr(-2.0))
	assertCode(t, err, models.CodeValidation)

	done, err := svc.Complete(ctx, user.ID, task.ID, ptr(2.5))
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(now))
	require.NotNil(t, done.ActualHours)
	assert.Equal(t, 2.5, *done.ActualHours)

	again, err := svc.Complete(ctx, user.ID, task.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.5, *again.ActualHours)

	require.NoError(t, svc.Delete(ctx, user.ID, task.ID))
	err = svc.Delete(ctx, user.ID, task.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestTaskService_DueToday(t *testing.T) {
	now := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)
	svc, user := newTaskService(t, now)
	ctx := context.Background()

	morning := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	mk := func(title, priority string, due *time.Time) *models.Task {
		task, err := svc.Create(ctx, CreateTaskInput{UserID: user.ID, Title: title, Priority: priority, DueDate: due})
		require.NoError(t, err)
		return task
	}
	mk("low today", "low", &morning)
	mk("high today", "high", &morning)
	mk("no due date", "high", nil)
	mk("tomorrow", "high", &tomorrow)
	done := mk("done today", "high", &morning)
	_, err := svc.Complete(ctx, user.ID, done.ID, nil)
	require.NoError(t, err)

	tasks, err := svc.DueToday(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "high today", tasks[0].Title)
	assert.Equal(t, "low today", tasks[1].Title)
}
