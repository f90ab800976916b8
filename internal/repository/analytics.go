package repository

import (
	"context"
	"time"

	"neuroflow/internal/models"

	"gorm.io/gorm"
)

// CompletionCounts pairs a row count with how many of those rows are complete.
type CompletionCounts struct {
	Total     int64
	Completed int64
}

// HabitEntryStats is one active habit with its entry counts inside a window.
type HabitEntryStats struct {
	HabitID          uint
	HabitName        string
	Category         string
	TargetFrequency  int
	TotalEntries     int64
	CompletedEntries int64
}

// AnalyticsRepository runs the read-only aggregate queries behind the analytics endpoints.
type AnalyticsRepository interface {
	TaskCounts(ctx context.Context, ownerID uint) (CompletionCounts, error)
	CountTasksCreatedSince(ctx context.Context, ownerID uint, since time.Time) (int64, error)
	CountTasksCompletedSince(ctx context.Context, ownerID uint, since time.Time) (int64, error)
	CountActiveHabits(ctx context.Context, ownerID uint) (int64, error)
	// HabitEntryCounts counts entries dated on or after since across every habit the user owns.
	HabitEntryCounts(ctx context.Context, ownerID uint, since time.Time) (CompletionCounts, error)
	// HoursByPriority sums actual_hours per priority, ignoring tasks without actual_hours.
	HoursByPriority(ctx context.Context, ownerID uint) (map[models.Priority]float64, error)
	// CompletionTimes returns completed_at of completed tasks in [from, to).
	CompletionTimes(ctx context.Context, ownerID uint, from, to time.Time) ([]time.Time, error)
	// ActiveHabitStats returns one row per active habit, ordered by habit ID.
	ActiveHabitStats(ctx context.Context, ownerID uint, since time.Time) ([]HabitEntryStats, error)
	// CompletedDueDates returns due_date of completed tasks due in [from, to).
	CompletedDueDates(ctx context.Context, ownerID uint, from, to time.Time) ([]time.Time, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository returns a new AnalyticsRepository implementation.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) TaskCounts(ctx context.Context, ownerID uint) (CompletionCounts, error) {
	var counts CompletionCounts
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed").
		Where("owner_id = ?", ownerID).
		Scan(&counts).Error
	if err != nil {
		return CompletionCounts{}, models.NewInternalError(err)
	}
	return counts, nil
}

func (r *analyticsRepository) CountTasksCreatedSince(ctx context.Context, ownerID uint, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("owner_id = ? AND created_at >= ?", ownerID, since.UTC()).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *analyticsRepository) CountTasksCompletedSince(ctx context.Context, ownerID uint, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("owner_id = ? AND is_completed = ? AND completed_at >= ?", ownerID, true, since.UTC()).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *analyticsRepository) CountActiveHabits(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Habit{}).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *analyticsRepository) HabitEntryCounts(ctx context.Context, ownerID uint, since time.Time) (CompletionCounts, error) {
	var counts CompletionCounts
	err := r.db.WithContext(ctx).
		Table("habit_entries").
		Select("COUNT(habit_entries.id) AS total, COALESCE(SUM(CASE WHEN habit_entries.completed THEN 1 ELSE 0 END), 0) AS completed").
		Joins("JOIN habits ON habits.id = habit_entries.habit_id").
		Where("habits.owner_id = ? AND habit_entries.date >= ?", ownerID, since.UTC()).
		Scan(&counts).Error
	if err != nil {
		return CompletionCounts{}, models.NewInternalError(err)
	}
	return counts, nil
}

func (r *analyticsRepository) HoursByPriority(ctx context.Context, ownerID uint) (map[models.Priority]float64, error) {
	var rows []struct {
		Priority models.Priority
		Hours    float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("priority, COALESCE(SUM(actual_hours), 0) AS hours").
		Where("owner_id = ? AND actual_hours IS NOT NULL", ownerID).
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	out := make(map[models.Priority]float64, len(rows))
	for _, row := range rows {
		out[row.Priority] = row.Hours
	}
	return out, nil
}

func (r *analyticsRepository) CompletionTimes(ctx context.Context, ownerID uint, from, to time.Time) ([]time.Time, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Select("id", "completed_at").
		Where("owner_id = ? AND is_completed = ?", ownerID, true).
		Where("completed_at >= ? AND completed_at < ?", from.UTC(), to.UTC()).
		Find(&tasks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collectTimes(tasks, func(t models.Task) *time.Time { return t.CompletedAt }), nil
}

func (r *analyticsRepository) ActiveHabitStats(ctx context.Context, ownerID uint, since time.Time) ([]HabitEntryStats, error) {
	var rows []HabitEntryStats
	err := r.db.WithContext(ctx).
		Table("habits").
		Select(`habits.id AS habit_id, habits.name AS habit_name, habits.category AS category,
			habits.target_frequency AS target_frequency,
			COUNT(habit_entries.id) AS total_entries,
			COALESCE(SUM(CASE WHEN habit_entries.completed THEN 1 ELSE 0 END), 0) AS completed_entries`).
		Joins("LEFT JOIN habit_entries ON habit_entries.habit_id = habits.id AND habit_entries.date >= ?", since.UTC()).
		Where("habits.owner_id = ? AND habits.is_active = ?", ownerID, true).
		Group("habits.id, habits.name, habits.category, habits.target_frequency").
		Order("habits.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *analyticsRepository) CompletedDueDates(ctx context.Context, ownerID uint, from, to time.Time) ([]time.Time, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Select("id", "due_date").
		Where("owner_id = ? AND is_completed = ?", ownerID, true).
		Where("due_date >= ? AND due_date < ?", from.UTC(), to.UTC()).
		Find(&tasks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collectTimes(tasks, func(t models.Task) *time.Time { return t.DueDate }), nil
}

func collectTimes(tasks []models.Task, pick func(models.Task) *time.Time) []time.Time {
	out := make([]time.Time, 0, len(tasks))
	for _, t := range tasks {
		if ts := pick(t); ts != nil {
			out = append(out, *ts)
		}
	}
	return out
}
