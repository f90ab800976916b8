package service

import (
	"context"
	"strings"
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/observability"
	"neuroflow/internal/repository"
)

// Entry sources reported on the upsert metric.
const (
	EntrySourceEntries  = "entries"
	EntrySourceQuickLog = "quick_log"
)

const (
	QuickLogCreated = "Habit logged for today"
	QuickLogUpdated = "Habit updated for today"
)

type HabitService struct {
	repo  repository.HabitRepository
	clock Clock
}

type CreateHabitInput struct {
	UserID          uint
	Name            string
	Description     string
	Category        string
	TargetFrequency int
}

type UpdateHabitInput struct {
	UserID  uint
	HabitID uint
	Patch   models.HabitPatch
}

// LogEntryInput records a habit's status for one calendar day. Nil optional
// fields keep the stored values when the day already has an entry.
type LogEntryInput struct {
	UserID    uint
	HabitID   uint
	Date      time.Time
	Completed *bool
	Notes     *string
	Rating    *int
}

type QuickLogInput struct {
	UserID    uint
	HabitID   uint
	Completed *bool
	Notes     *string
	Rating    *int
}

// QuickLogResult is the confirmation returned by QuickLog.
type QuickLogResult struct {
	Message string             `json:"message"`
	Entry   *models.HabitEntry `json:"entry"`
}

// TodayStatus is one active habit with today's entry, defaulted when absent.
type TodayStatus struct {
	Habit     models.Habit `json:"habit"`
	Completed bool         `json:"completed"`
	Notes     string       `json:"notes"`
	Rating    *int         `json:"rating"`
}

func NewHabitService(repo repository.HabitRepository, clock Clock) *HabitService {
	return &HabitService{repo: repo, clock: clock}
}

func (s *HabitService) List(ctx context.Context, userID uint) ([]models.Habit, error) {
	return s.repo.ListActive(ctx, userID)
}

func (s *HabitService) Get(ctx context.Context, userID, id uint) (*models.Habit, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *HabitService) Create(ctx context.Context, in CreateHabitInput) (*models.Habit, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if category == "" {
		return nil, models.NewValidationError("category is required")
	}
	if err := models.ValidateTargetFrequency(in.TargetFrequency); err != nil {
		return nil, err
	}

	habit := &models.Habit{
		Name:            name,
		Description:     in.Description,
		Category:        category,
		TargetFrequency: in.TargetFrequency,
		IsActive:        true,
		OwnerID:         in.UserID,
	}
	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) Update(ctx context.Context, in UpdateHabitInput) (*models.Habit, error) {
	habit, err := s.repo.GetByID(ctx, in.HabitID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := in.Patch.Validate(); err != nil {
		return nil, err
	}

	in.Patch.Apply(habit)
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Delete deactivates the habit; its entries are kept.
func (s *HabitService) Delete(ctx context.Context, userID, id uint) error {
	habit, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	habit.IsActive = false
	return s.repo.Update(ctx, habit)
}

func (s *HabitService) ListEntries(ctx context.Context, userID, habitID uint) ([]models.HabitEntry, error) {
	if _, err := s.repo.GetByID(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, habitID)
}

// LogEntry upserts the entry for the calendar day containing in.Date.
func (s *HabitService) LogEntry(ctx context.Context, in LogEntryInput) (*models.HabitEntry, bool, error) {
	return s.upsert(ctx, EntrySourceEntries, in)
}

// QuickLog upserts today's entry for the habit.
func (s *HabitService) QuickLog(ctx context.Context, in QuickLogInput) (*QuickLogResult, error) {
	entry, created, err := s.upsert(ctx, EntrySourceQuickLog, LogEntryInput{
		UserID:    in.UserID,
		HabitID:   in.HabitID,
		Date:      s.clock.Current(),
		Completed: in.Completed,
		Notes:     in.Notes,
		Rating:    in.Rating,
	})
	if err != nil {
		return nil, err
	}

	msg := QuickLogUpdated
	if created {
		msg = QuickLogCreated
	}
	return &QuickLogResult{Message: msg, Entry: entry}, nil
}

func (s *HabitService) upsert(ctx context.Context, source string, in LogEntryInput) (*models.HabitEntry, bool, error) {
	if _, err := s.repo.GetByID(ctx, in.HabitID, in.UserID); err != nil {
		return nil, false, err
	}
	if in.Completed == nil {
		return nil, false, models.NewValidationError("completed is required")
	}
	if in.Date.IsZero() {
		return nil, false, models.NewValidationError("date is required")
	}

	day := s.clock.StartOfDay(in.Date)
	entry, created, err := s.repo.UpsertEntry(ctx, in.HabitID, day, models.HabitEntryPatch{
		Completed: in.Completed,
		Notes:     in.Notes,
		Rating:    in.Rating,
	})
	if err != nil {
		observability.HabitEntriesUpserted.WithLabelValues(source, "error").Inc()
		return nil, false, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	observability.HabitEntriesUpserted.WithLabelValues(source, outcome).Inc()
	return entry, created, nil
}

// Today lists every active habit with today's status. Habits without an entry
// report completed=false, empty notes and no rating.
func (s *HabitService) Today(ctx context.Context, userID uint) ([]TodayStatus, error) {
	habits, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return []TodayStatus{}, nil
	}

	ids := make([]uint, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}
	today := s.clock.Today()
	entries, err := s.repo.EntriesBetween(ctx, ids, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byHabit := make(map[uint]models.HabitEntry, len(entries))
	for _, e := range entries {
		byHabit[e.HabitID] = e
	}

	out := make([]TodayStatus, 0, len(habits))
	for _, h := range habits {
		status := TodayStatus{Habit: h}
		if e, ok := byHabit[h.ID]; ok {
			status.Completed = e.Completed
			status.Rating = e.Rating
			if e.Notes != nil {
				status.Notes = *e.Notes
			}
		}
		out = append(out, status)
	}
	return out, nil
}
