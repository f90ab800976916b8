package models

import (
	"strings"
	"time"
)

// Habit is a recurring behavior tracked through daily entries.
// Deleting a habit only clears IsActive; entries are kept.
type Habit struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"size:120" json:"category"`
	TargetFrequency int       `gorm:"not null;default:1" json:"target_frequency"`
	IsActive        bool      `gorm:"not null;default:true;index" json:"is_active"`
	OwnerID         uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// HabitEntry records one calendar day's status for a habit.
// (HabitID, Date) is unique; Date is always midnight of the day it names.
type HabitEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_habit_entries_habit_date,priority:2" json:"date"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	Rating    *int      `json:"rating"`
	HabitID   uint      `gorm:"not null;uniqueIndex:idx_habit_entries_habit_date,priority:1" json:"habit_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MaxTargetFrequency is the most times per week a habit can target.
const MaxTargetFrequency = 7

// ValidateTargetFrequency checks a weekly target.
func ValidateTargetFrequency(n int) error {
	if n < 1 || n > MaxTargetFrequency {
		return NewValidationError("target_frequency must be between 1 and 7")
	}
	return nil
}

// HabitPatch lists the habit fields a partial update may touch.
type HabitPatch struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	TargetFrequency *int    `json:"target_frequency"`
}

// Validate checks the supplied fields only.
func (p *HabitPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return NewValidationError("name cannot be empty")
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return NewValidationError("category cannot be empty")
	}
	if p.TargetFrequency != nil {
		return ValidateTargetFrequency(*p.TargetFrequency)
	}
	return nil
}

// Apply copies every supplied field onto h.
func (p *HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Category != nil {
		h.Category = strings.TrimSpace(*p.Category)
	}
	if p.TargetFrequency != nil {
		h.TargetFrequency = *p.TargetFrequency
	}
}

// HabitEntryPatch carries the entry fields supplied by a log request.
// Omitted fields keep their stored values when the entry already exists.
type HabitEntryPatch struct {
	Completed *bool
	Notes     *string
	Rating    *int
}

// Apply copies every supplied field onto e.
func (p HabitEntryPatch) Apply(e *HabitEntry) {
	if p.Completed != nil {
		e.Completed = *p.Completed
	}
	if p.Notes != nil {
		notes := *p.Notes
		e.Notes = &notes
	}
	if p.Rating != nil {
		rating := *p.Rating
		e.Rating = &rating
	}
}
