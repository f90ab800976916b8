package service

import (
	"context"
	"fmt"
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/observability"
	"neuroflow/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	trendWeeks       = 8
	week             = 7 * 24 * time.Hour
	habitWindowDays  = 30
	defaultLookback  = 3650
	dailyTasksStreak = "Daily Tasks"
)

// Overview is the dashboard summary.
type Overview struct {
	TotalTasks           int64   `json:"total_tasks"`
	CompletedTasks       int64   `json:"completed_tasks"`
	CompletionRate       float64 `json:"completion_rate"`
	TasksThisWeek        int64   `json:"tasks_this_week"`
	CompletedThisWeek    int64   `json:"completed_this_week"`
	WeeklyCompletionRate float64 `json:"weekly_completion_rate"`
	ActiveHabits         int64   `json:"active_habits"`
	HabitConsistency     float64 `json:"habit_consistency"`
}

// PriorityHours is the sum of recorded actual hours for one priority.
type PriorityHours struct {
	Priority models.Priority `json:"priority"`
	Hours    float64         `json:"hours"`
}

// WeekBucket counts tasks completed in one week of the trend.
type WeekBucket struct {
	Week           string `json:"week"`
	CompletedTasks int    `json:"completed_tasks"`
}

// Productivity combines hours by priority with the eight-week completion trend.
type Productivity struct {
	TimeByPriority []PriorityHours `json:"time_by_priority"`
	WeeklyTrend    []WeekBucket    `json:"weekly_trend"`
}

// HabitStat summarizes one active habit's entries over the last 30 days.
type HabitStat struct {
	HabitID          uint    `json:"habit_id"`
	HabitName        string  `json:"habit_name"`
	Category         string  `json:"category"`
	TargetFrequency  int     `json:"target_frequency"`
	CompletionRate   float64 `json:"completion_rate"`
	TotalEntries     int64   `json:"total_entries"`
	CompletedEntries int64   `json:"completed_entries"`
}

// Streak describes one kind of consecutive-day run.
type Streak struct {
	Type          string `json:"type"`
	CurrentStreak int    `json:"current_streak"`
	Description   string `json:"description"`
}

// AnalyticsService computes read-only aggregates over a user's tasks and habits.
type AnalyticsService struct {
	repo         repository.AnalyticsRepository
	clock        Clock
	lookbackDays int
}

// NewAnalyticsService caps streak walks at lookbackDays, or ten years when it is not positive.
func NewAnalyticsService(repo repository.AnalyticsRepository, clock Clock, lookbackDays int) *AnalyticsService {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookback
	}
	return &AnalyticsService{repo: repo, clock: clock, lookbackDays: lookbackDays}
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func (s *AnalyticsService) Overview(ctx context.Context, userID uint) (out *Overview, err error) {
	span, ctx := observability.StartSpan(ctx, "analytics.overview", attribute.Int64("user.id", int64(userID)))
	defer func() { span.End(err) }()
	defer observability.TrackAnalytics("overview")()

	weekStart := s.clock.Current().Add(-week)

	tasks, err := s.repo.TaskCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	createdThisWeek, err := s.repo.CountTasksCreatedSince(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	completedThisWeek, err := s.repo.CountTasksCompletedSince(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	activeHabits, err := s.repo.CountActiveHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.HabitEntryCounts(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalTasks:           tasks.Total,
		CompletedTasks:       tasks.Completed,
		CompletionRate:       Percent(tasks.Completed, tasks.Total),
		TasksThisWeek:        createdThisWeek,
		CompletedThisWeek:    completedThisWeek,
		WeeklyCompletionRate: Percent(completedThisWeek, createdThisWeek),
		ActiveHabits:         activeHabits,
		HabitConsistency:     Percent(entries.Completed, entries.Total),
	}, nil
}

func (s *AnalyticsService) Productivity(ctx context.Context, userID uint) (out *Productivity, err error) {
	span, ctx := observability.StartSpan(ctx, "analytics.productivity", attribute.Int64("user.id", int64(userID)))
	defer func() { span.End(err) }()
	defer observability.TrackAnalytics("productivity")()

	hours, err := s.repo.HoursByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}
	byPriority := make([]PriorityHours, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		byPriority = append(byPriority, PriorityHours{Priority: p, Hours: hours[p]})
	}

	now := s.clock.Current()
	completions, err := s.repo.CompletionTimes(ctx, userID, now.Add(-trendWeeks*week), now)
	if err != nil {
		return nil, err
	}

	return &Productivity{
		TimeByPriority: byPriority,
		WeeklyTrend:    WeeklyTrend(now, completions),
	}, nil
}

// WeeklyTrend buckets completion times into the eight half-open windows
// [now-(i+1)w, now-iw). The result runs oldest first: "Week 1" is the window
// furthest back and "Week 8" ends at now.
func WeeklyTrend(now time.Time, completions []time.Time) []WeekBucket {
	counts := make([]int, trendWeeks)
	for _, t := range completions {
		d := now.Sub(t)
		if d <= 0 {
			continue
		}
		i := int((d - 1) / week)
		if i >= trendWeeks {
			continue
		}
		counts[i]++
	}

	out := make([]WeekBucket, trendWeeks)
	for i := 0; i < trendWeeks; i++ {
		label := trendWeeks - i
		out[label-1] = WeekBucket{
			Week:           fmt.Sprintf("Week %d", label),
			CompletedTasks: counts[i],
		}
	}
	return out
}

// Habits reports trailing 30-day entry statistics for each active habit, ordered by habit ID.
func (s *AnalyticsService) Habits(ctx context.Context, userID uint) (out []HabitStat, err error) {
	span, ctx := observability.StartSpan(ctx, "analytics.habits", attribute.Int64("user.id", int64(userID)))
	defer func() { span.End(err) }()
	defer observability.TrackAnalytics("habits")()

	since := s.clock.Current().AddDate(0, 0, -habitWindowDays)
	rows, err := s.repo.ActiveHabitStats(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	out = make([]HabitStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, HabitStat{
			HabitID:          r.HabitID,
			HabitName:        r.HabitName,
			Category:         r.Category,
			TargetFrequency:  r.TargetFrequency,
			CompletionRate:   Percent(r.CompletedEntries, r.TotalEntries),
			TotalEntries:     r.TotalEntries,
			CompletedEntries: r.CompletedEntries,
		})
	}
	return out, nil
}

// Streaks returns the current streak descriptors. Only the daily task streak exists today.
func (s *AnalyticsService) Streaks(ctx context.Context, userID uint) (out []Streak, err error) {
	span, ctx := observability.StartSpan(ctx, "analytics.streaks", attribute.Int64("user.id", int64(userID)))
	defer func() { span.End(err) }()
	defer observability.TrackAnalytics("streaks")()

	today := s.clock.Today()
	from := today.AddDate(0, 0, -s.lookbackDays)
	dueDates, err := s.repo.CompletedDueDates(ctx, userID, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	days := make(map[string]struct{}, len(dueDates))
	for _, d := range dueDates {
		days[s.clock.DayKey(d)] = struct{}{}
	}
	n := DailyStreak(s.clock, today, days, s.lookbackDays)

	return []Streak{{
		Type:          dailyTasksStreak,
		CurrentStreak: n,
		Description:   fmt.Sprintf("%d days of completing at least one task", n),
	}}, nil
}

// DailyStreak walks back from today one calendar day at a time and counts
// consecutive days present in days. The walk stops at the first missing day
// or after maxDays steps.
func DailyStreak(clock Clock, today time.Time, days map[string]struct{}, maxDays int) int {
	streak := 0
	day := clock.StartOfDay(today)
	for streak < maxDays {
		if _, ok := days[clock.DayKey(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
