package database

import "neuroflow/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Roadmap{},
		&models.Milestone{},
		&models.Task{},
		&models.Habit{},
		&models.HabitEntry{},
		&models.MLExperiment{},
	}
}
