package repository

import (
	"context"
	"errors"
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HabitRepository defines persistence operations for habits and their daily entries.
type HabitRepository interface {
	ListActive(ctx context.Context, ownerID uint) ([]models.Habit, error)
	GetByID(ctx context.Context, id, ownerID uint) (*models.Habit, error)
	Create(ctx context.Context, habit *models.Habit) error
	Update(ctx context.Context, habit *models.Habit) error

	// ListEntries returns a habit's entries, newest date first.
	ListEntries(ctx context.Context, habitID uint) ([]models.HabitEntry, error)
	// EntriesBetween returns the entries of the given habits dated in [from, to).
	EntriesBetween(ctx context.Context, habitIDs []uint, from, to time.Time) ([]models.HabitEntry, error)
	// UpsertEntry writes the entry for (habitID, day), creating it when absent
	// and merging patch onto it otherwise. day must already be a day start;
	// created reports which branch ran.
	UpsertEntry(ctx context.Context, habitID uint, day time.Time, patch models.HabitEntryPatch) (entry *models.HabitEntry, created bool, err error)
}

type habitRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewHabitRepository returns a new HabitRepository implementation.
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &habitRepository{db: db, log: observability.NewRepoLogger("habits")}
}

func (r *habitRepository) ListActive(ctx context.Context, ownerID uint) ([]models.Habit, error) {
	var habits []models.Habit
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("id ASC").
		Find(&habits).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return habits, nil
}

func (r *habitRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Habit, error) {
	var habit models.Habit
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&habit).Error; err != nil {
		return nil, notFoundOr(err, "Habit", id)
	}
	return &habit, nil
}

func (r *habitRepository) Create(ctx context.Context, habit *models.Habit) error {
	if err := r.db.WithContext(ctx).Create(habit).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": habit.ID, "owner_id": habit.OwnerID})
	return nil
}

func (r *habitRepository) Update(ctx context.Context, habit *models.Habit) error {
	if err := r.db.WithContext(ctx).Save(habit).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"id": habit.ID, "is_active": habit.IsActive})
	return nil
}

func (r *habitRepository) ListEntries(ctx context.Context, habitID uint) ([]models.HabitEntry, error) {
	var entries []models.HabitEntry
	if err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *habitRepository) EntriesBetween(ctx context.Context, habitIDs []uint, from, to time.Time) ([]models.HabitEntry, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}
	var entries []models.HabitEntry
	if err := r.db.WithContext(ctx).
		Where("habit_id IN ?", habitIDs).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *habitRepository) UpsertEntry(ctx context.Context, habitID uint, day time.Time, patch models.HabitEntryPatch) (*models.HabitEntry, bool, error) {
	day = day.UTC()
	var (
		result  models.HabitEntry
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findEntryOn(tx, habitID, day, &result)
		if err != nil {
			return err
		}
		if found {
			patch.Apply(&result)
			return tx.Save(&result).Error
		}

		fresh := models.HabitEntry{HabitID: habitID, Date: day}
		patch.Apply(&fresh)
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			result = fresh
			created = true
			return nil
		}

		// A concurrent writer inserted the row first; merge onto it.
		found, err = findEntryOn(tx, habitID, day, &result)
		if err != nil {
			return err
		}
		if !found {
			return errors.New("habit entry vanished after insert conflict")
		}
		patch.Apply(&result)
		return tx.Save(&result).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "upsert_entry")
		return nil, false, models.NewInternalError(err)
	}

	r.log.LogUpdate(ctx, map[string]any{"habit_id": habitID, "entry_id": result.ID, "created": created})
	return &result, created, nil
}

func findEntryOn(tx *gorm.DB, habitID uint, day time.Time, dest *models.HabitEntry) (bool, error) {
	err := tx.
		Where("habit_id = ? AND date = ?", habitID, day).
		First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
