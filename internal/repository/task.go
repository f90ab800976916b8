package repository

import (
	"context"
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/observability"

	"gorm.io/gorm"
)

// priorityRank orders tasks high > medium > low regardless of collation.
const priorityRank = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC"

// undatedLast puts tasks without a due date after dated ones on every driver.
const undatedLast = "CASE WHEN due_date IS NULL THEN 1 ELSE 0 END ASC"

// TaskRepository defines persistence operations for tasks. Every lookup is
// scoped to the owner, so a task owned by someone else reads as not found.
type TaskRepository interface {
	List(ctx context.Context, ownerID uint) ([]models.Task, error)
	GetByID(ctx context.Context, id, ownerID uint) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, ownerID uint) error
	// ListOpenDueBetween returns incomplete tasks due in [from, to), highest priority first.
	ListOpenDueBetween(ctx context.Context, ownerID uint, from, to time.Time) ([]models.Task, error)
}

type taskRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewTaskRepository returns a new TaskRepository implementation.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db, log: observability.NewRepoLogger("tasks")}
}

func (r *taskRepository) List(ctx context.Context, ownerID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order(undatedLast).
		Order("due_date ASC").
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, notFoundOr(err, "Task", id)
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": task.ID, "owner_id": task.OwnerID})
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"id": task.ID, "is_completed": task.IsCompleted})
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Task{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Task", id)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}

func (r *taskRepository) ListOpenDueBetween(ctx context.Context, ownerID uint, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_completed = ?", ownerID, false).
		Where("due_date >= ? AND due_date < ?", from.UTC(), to.UTC()).
		Order(priorityRank).
		Order("due_date ASC").
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tasks, nil
}
