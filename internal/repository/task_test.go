package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"neuroflow/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_OwnershipIsolation(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	task := &models.Task{Title: "Ship v1", Priority: models.PriorityHigh, OwnerID: alice.ID}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship v1", got.Title)

	_, err = repo.GetByID(ctx, task.ID, bob.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	list, err := repo.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = repo.Delete(ctx, task.ID, bob.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	require.NoError(t, repo.Delete(ctx, task.ID, alice.ID))
	_, err = repo.GetByID(ctx, task.ID, alice.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestTaskRepository_ListOpenDueBetween(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "carol")

	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time { v := day.Add(time.Duration(h) * time.Hour); return &v }
	tomorrow := day.Add(30 * time.Hour)

	fixtures := []models.Task{
		{Title: "low", Priority: models.PriorityLow, DueDate: at(9)},
		{Title: "high", Priority: models.PriorityHigh, DueDate: at(17)},
		{Title: "medium", Priority: models.PriorityMedium, DueDate: at(8)},
		{Title: "done", Priority: models.PriorityHigh, DueDate: at(10), IsCompleted: true},
		{Title: "undated", Priority: models.PriorityHigh},
		{Title: "tomorrow", Priority: models.PriorityHigh, DueDate: &tomorrow},
	}
	for i := range fixtures {
		fixtures[i].OwnerID = user.ID
		require.NoError(t, repo.Create(ctx, &fixtures[i]))
	}

	tasks, err := repo.ListOpenDueBetween(ctx, user.ID, day, day.Add(24*time.Hour))
	require.NoError(t, err)

	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"high", "medium", "low"}, titles)
}

func TestTaskRepository_ListPutsUndatedLast(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "dora")

	early := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 0, 3)
	for _, task := range []models.Task{
		{Title: "undated", Priority: models.PriorityHigh},
		{Title: "late", Priority: models.PriorityLow, DueDate: &late},
		{Title: "early", Priority: models.PriorityLow, DueDate: &early},
	} {
		task.OwnerID = user.ID
		require.NoError(t, repo.Create(ctx, &task))
	}

	tasks, err := repo.List(ctx, user.ID)
	require.NoError(t, err)

	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"early", "late", "undated"}, titles)
}

func TestTaskRepository_List_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE owner_id = $1 ORDER BY CASE WHEN due_date IS NULL THEN 1 ELSE 0 END ASC,due_date ASC,id ASC`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id"}))

	tasks, err := repo.List(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdatePersistsCompletion(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "dave")

	task := &models.Task{Title: "Refactor", Priority: models.PriorityMedium, OwnerID: user.ID}
	require.NoError(t, repo.Create(ctx, task))

	now := time.Now().UTC()
	hours := 2.5
	task.IsCompleted = true
	task.CompletedAt = &now
	task.ActualHours = &hours
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.ActualHours)
	assert.InDelta(t, 2.5, *got.ActualHours, 0.0001)
	require.NotNil(t, got.CompletedAt)
}

func TestTaskRepository_GetByID_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE id = $1 AND owner_id = $2 ORDER BY "tasks"."id" LIMIT $3`)).
		WithArgs(5, 9, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "priority", "owner_id"}).
			AddRow(5, "Write tests", "high", 9))

	task, err := repo.GetByID(ctx, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, "Write tests", task.Title)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id = $1 AND owner_id = $2`)).
		WithArgs(5, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 5, 9)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
