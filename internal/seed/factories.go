// Package seed provides the built-in roadmap catalog and helpers that create
// demo data for development. The demo helpers are not used by the server.
package seed

import (
	"context"
	"fmt"
	"time"

	"neuroflow/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoOptions controls how much demo data a Factory generates.
type DemoOptions struct {
	Tasks    int
	Habits   int
	Days     int
	Password string
	Seed     int64
	Location *time.Location
}

func (o DemoOptions) withDefaults() DemoOptions {
	if o.Tasks <= 0 {
		o.Tasks = 40
	}
	if o.Habits <= 0 {
		o.Habits = 4
	}
	if o.Days <= 0 {
		o.Days = 60
	}
	if o.Password == "" {
		o.Password = "demo-pass-123"
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  DemoOptions
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts DemoOptions) *Factory {
	opts = opts.withDefaults()
	return &Factory{
		db:    db,
		opts:  opts,
		faker: gofakeit.New(opts.Seed),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

var (
	habitTemplates = []struct {
		Name     string
		Category string
	}{
		{"Read 30 minutes", "Learning"},
		{"Morning run", "Health"},
		{"Meditate", "Mindfulness"},
		{"Practice SQL katas", "Learning"},
		{"Journal", "Mindfulness"},
		{"Strength training", "Health"},
		{"Review flashcards", "Learning"},
	}
	taskVerbs = []string{"Draft", "Review", "Refactor", "Benchmark", "Document", "Deploy", "Prototype", "Outline"}
)

// User creates a demo user with the configured password.
func (f *Factory) User(ctx context.Context) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(f.opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	username := fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(10, 99))
	user := &models.User{
		Email:    fmt.Sprintf("%s@example.com", username),
		Username: username,
		Password: string(hashed),
		IsActive: true,
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	return user, nil
}

// BuildTask returns an unsaved task with a due date, priority and hours spread
// across the configured window. Roughly two thirds are completed.
func (f *Factory) BuildTask(owner *models.User) models.Task {
	now := f.now()
	due := now.AddDate(0, 0, -f.faker.Number(-7, f.opts.Days))
	created := due.AddDate(0, 0, -f.faker.Number(1, 10))
	if created.After(now) {
		created = now
	}
	estimate := float64(f.faker.Number(1, 16)) / 2

	task := models.Task{
		Title:          fmt.Sprintf("%s %s", f.faker.RandomString(taskVerbs), f.faker.Noun()),
		Description:    f.faker.Sentence(10),
		DueDate:        &due,
		Priority:       models.Priorities[f.faker.Number(0, len(models.Priorities)-1)],
		EstimatedHours: &estimate,
		OwnerID:        owner.ID,
		CreatedAt:      created,
	}

	if !due.After(now) && f.faker.Number(1, 3) <= 2 {
		completed := due.Add(time.Duration(f.faker.Number(0, 20)) * time.Hour)
		if completed.After(now) {
			completed = now
		}
		actual := estimate * f.faker.Float64Range(0.5, 1.8)
		task.IsCompleted = true
		task.CompletedAt = &completed
		task.ActualHours = &actual
	}
	return task
}

// Tasks persists the configured number of demo tasks for owner.
func (f *Factory) Tasks(ctx context.Context, owner *models.User) ([]models.Task, error) {
	tasks := make([]models.Task, 0, f.opts.Tasks)
	for i := 0; i < f.opts.Tasks; i++ {
		tasks = append(tasks, f.BuildTask(owner))
	}
	if err := f.db.WithContext(ctx).CreateInBatches(&tasks, 100).Error; err != nil {
		return nil, fmt.Errorf("create demo tasks: %w", err)
	}
	return tasks, nil
}

// Habits persists demo habits for owner, each with one entry per day of the window.
func (f *Factory) Habits(ctx context.Context, owner *models.User) ([]models.Habit, error) {
	count := f.opts.Habits
	if count > len(habitTemplates) {
		count = len(habitTemplates)
	}

	habits := make([]models.Habit, 0, count)
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			tpl := habitTemplates[i]
			habit := models.Habit{
				Name:            tpl.Name,
				Description:     f.faker.Sentence(6),
				Category:        tpl.Category,
				TargetFrequency: f.faker.Number(3, models.MaxTargetFrequency),
				IsActive:        true,
				OwnerID:         owner.ID,
			}
			if err := tx.Create(&habit).Error; err != nil {
				return err
			}

			entries := f.buildEntries(habit)
			if len(entries) > 0 {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					CreateInBatches(&entries, 100).Error; err != nil {
					return err
				}
			}
			habits = append(habits, habit)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create demo habits: %w", err)
	}
	return habits, nil
}

func (f *Factory) buildEntries(habit models.Habit) []models.HabitEntry {
	loc := f.opts.Location
	today := f.now().In(loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	hitRate := float64(habit.TargetFrequency) / float64(models.MaxTargetFrequency)
	entries := make([]models.HabitEntry, 0, f.opts.Days)
	for d := 0; d < f.opts.Days; d++ {
		if f.faker.Float64Range(0, 1) < 0.2 {
			continue
		}
		rating := f.faker.Number(1, 10)
		entry := models.HabitEntry{
			HabitID:   habit.ID,
			Date:      today.AddDate(0, 0, -d).UTC(),
			Completed: f.faker.Float64Range(0, 1) < hitRate,
			Rating:    &rating,
		}
		if f.faker.Bool() {
			notes := f.faker.Sentence(5)
			entry.Notes = &notes
		}
		entries = append(entries, entry)
	}
	return entries
}

// DemoResult summarizes a demo data run.
type DemoResult struct {
	User   *models.User
	Tasks  int
	Habits int
}

// Demo creates a user with tasks, habits and entries.
func (f *Factory) Demo(ctx context.Context) (*DemoResult, error) {
	user, err := f.User(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := f.Tasks(ctx, user)
	if err != nil {
		return nil, err
	}
	habits, err := f.Habits(ctx, user)
	if err != nil {
		return nil, err
	}
	return &DemoResult{User: user, Tasks: len(tasks), Habits: len(habits)}, nil
}
