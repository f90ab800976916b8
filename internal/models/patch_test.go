package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestTaskPatch_ApplyOnlySuppliedFields(t *testing.T) {
	task := Task{Title: "Write report", Description: "draft", Priority: PriorityLow}

	patch := TaskPatch{Priority: ptr(PriorityHigh)}
	assert.NoError(t, patch.Validate())
	patch.Apply(&task)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "draft", task.Description)
	assert.Equal(t, PriorityHigh, task.Priority)
}

func TestTaskPatch_EmptyIsNoop(t *testing.T) {
	task := Task{Title: "Keep", Priority: PriorityMedium}
	var patch TaskPatch
	assert.NoError(t, patch.Validate())
	patch.Apply(&task)
	assert.Equal(t, Task{Title: "Keep", Priority: PriorityMedium}, task)
}

func TestTaskPatch_Validate(t *testing.T) {
	assert.Error(t, (&TaskPatch{Title: ptr("  ")}).Validate())
	assert.Error(t, (&TaskPatch{Priority: ptr(Priority("urgent"))}).Validate())
	assert.Error(t, (&TaskPatch{EstimatedHours: ptr(-1.0)}).Validate())
	assert.Error(t, (&TaskPatch{ActualHours: ptr(-0.5)}).Validate())
	assert.NoError(t, (&TaskPatch{ActualHours: ptr(0.0)}).Validate())
}

func TestHabitPatch(t *testing.T) {
	habit := Habit{Name: "Read", Category: "learning", TargetFrequency: 5}

	assert.Error(t, (&HabitPatch{TargetFrequency: ptr(0)}).Validate())
	assert.Error(t, (&HabitPatch{TargetFrequency: ptr(8)}).Validate())
	assert.Error(t, (&HabitPatch{Category: ptr("")}).Validate())

	patch := HabitPatch{Description: ptr("30 pages")}
	assert.NoError(t, patch.Validate())
	patch.Apply(&habit)
	assert.Equal(t, "Read", habit.Name)
	assert.Equal(t, "30 pages", habit.Description)
	assert.Equal(t, 5, habit.TargetFrequency)
}

func TestHabitEntryPatch_MergesOntoExisting(t *testing.T) {
	entry := HabitEntry{Completed: false, Notes: ptr("tired"), Rating: ptr(4)}

	HabitEntryPatch{Completed: ptr(true)}.Apply(&entry)

	assert.True(t, entry.Completed)
	assert.Equal(t, "tired", *entry.Notes)
	assert.Equal(t, 4, *entry.Rating)

	HabitEntryPatch{Rating: ptr(9)}.Apply(&entry)
	assert.True(t, entry.Completed)
	assert.Equal(t, 9, *entry.Rating)
}
