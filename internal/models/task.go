package models

import (
	"strings"
	"time"
)

// Priority ranks a task. Only the three declared values are valid.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the declared priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority validates raw, defaulting to medium when empty.
func ParsePriority(raw string) (Priority, error) {
	if raw == "" {
		return PriorityMedium, nil
	}
	p := Priority(raw)
	if !p.Valid() {
		return "", NewValidationError("priority must be one of low, medium, high")
	}
	return p, nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	DueDate        *time.Time `gorm:"index" json:"due_date"`
	IsCompleted    bool       `gorm:"not null;default:false" json:"is_completed"`
	Priority       Priority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	OwnerID        uint       `gorm:"not null;index" json:"owner_id"`
	MilestoneID    *uint      `gorm:"index" json:"milestone_id"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	CompletedAt    *time.Time `gorm:"index" json:"completed_at"`
}

// TaskPatch lists the task fields a partial update may touch. Nil fields are left unchanged.
type TaskPatch struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	DueDate        *time.Time `json:"due_date"`
	Priority       *Priority  `json:"priority"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	MilestoneID    *uint      `json:"milestone_id"`
}

// Validate checks the supplied fields only.
func (p *TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError("title cannot be empty")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return NewValidationError("priority must be one of low, medium, high")
	}
	if p.EstimatedHours != nil && *p.EstimatedHours < 0 {
		return NewValidationError("estimated_hours cannot be negative")
	}
	if p.ActualHours != nil && *p.ActualHours < 0 {
		return NewValidationError("actual_hours cannot be negative")
	}
	return nil
}

// Apply copies every supplied field onto t.
func (p *TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		due := p.DueDate.UTC()
		t.DueDate = &due
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = p.EstimatedHours
	}
	if p.ActualHours != nil {
		t.ActualHours = p.ActualHours
	}
	if p.MilestoneID != nil {
		t.MilestoneID = p.MilestoneID
	}
}
