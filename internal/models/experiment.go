package models

import (
	"time"

	"gorm.io/datatypes"
)

// MLExperiment records a model training run. Metrics and Parameters are
// stored as opaque JSON documents.
type MLExperiment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	ModelType        string         `gorm:"size:120" json:"model_type"`
	Dataset          string         `gorm:"size:255" json:"dataset"`
	Metrics          datatypes.JSON `json:"metrics"`
	Parameters       datatypes.JSON `json:"parameters"`
	TrainingDuration *float64       `json:"training_duration"`
	OwnerID          uint           `gorm:"not null;index" json:"owner_id"`
	CreatedAt        time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (MLExperiment) TableName() string {
	return "ml_experiments"
}
