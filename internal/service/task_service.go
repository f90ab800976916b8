package service

import (
	"context"
	"strings"
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/observability"
	"neuroflow/internal/repository"
)

// MilestoneChecker reports whether a milestone is visible to a user.
type MilestoneChecker interface {
	MilestoneVisible(ctx context.Context, userID, milestoneID uint) (bool, error)
}

type TaskService struct {
	repo       repository.TaskRepository
	milestones MilestoneChecker
	clock      Clock
}

type CreateTaskInput struct {
	UserID         uint
	Title          string
	Description    string
	DueDate        *time.Time
	Priority       string
	EstimatedHours *float64
	MilestoneID    *uint
}

type UpdateTaskInput struct {
	UserID uint
	TaskID uint
	Patch  models.TaskPatch
}

func NewTaskService(repo repository.TaskRepository, milestones MilestoneChecker, clock Clock) *TaskService {
	return &TaskService{repo: repo, milestones: milestones, clock: clock}
}

func (s *TaskService) List(ctx context.Context, userID uint) ([]models.Task, error) {
	return s.repo.List(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, userID, id uint) (*models.Task, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	priority, err := models.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	if in.EstimatedHours != nil && *in.EstimatedHours < 0 {
		return nil, models.NewValidationError("estimated_hours cannot be negative")
	}
	if err := s.checkMilestone(ctx, in.UserID, in.MilestoneID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          title,
		Description:    in.Description,
		Priority:       priority,
		EstimatedHours: in.EstimatedHours,
		OwnerID:        in.UserID,
		MilestoneID:    in.MilestoneID,
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		task.DueDate = &due
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies only the supplied fields. An empty patch returns the task unchanged.
func (s *TaskService) Update(ctx context.Context, in UpdateTaskInput) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, in.TaskID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := in.Patch.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkMilestone(ctx, in.UserID, in.Patch.MilestoneID); err != nil {
		return nil, err
	}

	in.Patch.Apply(task)
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete marks the task done and stamps completed_at; actualHours is stored when supplied.
func (s *TaskService) Complete(ctx context.Context, userID, id uint, actualHours *float64) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if actualHours != nil && *actualHours < 0 {
		return nil, models.NewValidationError("actual_hours cannot be negative")
	}

	wasCompleted := task.IsCompleted
	now := s.clock.Current().UTC()
	task.IsCompleted = true
	task.CompletedAt = &now
	if actualHours != nil {
		task.ActualHours = actualHours
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	if !wasCompleted {
		observability.TasksCompleted.Inc()
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id uint) error {
	return s.repo.Delete(ctx, id, userID)
}

// DueToday lists incomplete tasks due on the current calendar day, highest priority first.
func (s *TaskService) DueToday(ctx context.Context, userID uint) ([]models.Task, error) {
	today := s.clock.Today()
	return s.repo.ListOpenDueBetween(ctx, userID, today, today.AddDate(0, 0, 1))
}

func (s *TaskService) checkMilestone(ctx context.Context, userID uint, milestoneID *uint) error {
	if milestoneID == nil || s.milestones == nil {
		return nil
	}
	ok, err := s.milestones.MilestoneVisible(ctx, userID, *milestoneID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError("milestone_id does not refer to an accessible milestone")
	}
	return nil
}
