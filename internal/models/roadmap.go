package models

import "time"

// Roadmap is a named learning plan made of day-ordered milestones.
// Predefined roadmaps have no owner and are readable by everyone.
type Roadmap struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null;index" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Category     string    `gorm:"size:120" json:"category"`
	IsPredefined bool      `gorm:"not null;default:false;index" json:"is_predefined"`
	OwnerID      *uint     `gorm:"index" json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VisibleTo reports whether userID may read the roadmap.
func (r *Roadmap) VisibleTo(userID uint) bool {
	return r.IsPredefined || r.OwnedBy(userID)
}

// OwnedBy reports whether userID owns the roadmap.
func (r *Roadmap) OwnedBy(userID uint) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}

// Milestone is a checkpoint positioned by Day within its roadmap.
type Milestone struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Day         int       `gorm:"not null;default:0" json:"day"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	RoadmapID   uint      `gorm:"not null;index" json:"roadmap_id"`
	CreatedAt   time.Time `json:"created_at"`
}
