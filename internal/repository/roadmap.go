package repository

import (
	"context"
	"errors"

	"neuroflow/internal/models"
	"neuroflow/internal/observability"

	"gorm.io/gorm"
)

// RoadmapRepository defines persistence operations for roadmaps and their milestones.
type RoadmapRepository interface {
	// ListVisible returns the caller's roadmaps followed by the predefined ones.
	ListVisible(ctx context.Context, userID uint) ([]models.Roadmap, error)
	GetByID(ctx context.Context, id uint) (*models.Roadmap, error)
	Create(ctx context.Context, roadmap *models.Roadmap) error
	// FindPredefinedByTitle returns (nil, nil) when no predefined roadmap has the title.
	FindPredefinedByTitle(ctx context.Context, title string) (*models.Roadmap, error)
	CreateWithMilestones(ctx context.Context, roadmap *models.Roadmap, milestones []models.Milestone) error

	ListMilestones(ctx context.Context, roadmapID uint) ([]models.Milestone, error)
	GetMilestone(ctx context.Context, id uint) (*models.Milestone, error)
	CreateMilestone(ctx context.Context, milestone *models.Milestone) error
	MarkMilestoneCompleted(ctx context.Context, id uint) error
}

type roadmapRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewRoadmapRepository returns a new RoadmapRepository implementation.
func NewRoadmapRepository(db *gorm.DB) RoadmapRepository {
	return &roadmapRepository{db: db, log: observability.NewRepoLogger("roadmaps")}
}

func (r *roadmapRepository) ListVisible(ctx context.Context, userID uint) ([]models.Roadmap, error) {
	var owned []models.Roadmap
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("id ASC").
		Find(&owned).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var predefined []models.Roadmap
	if err := r.db.WithContext(ctx).
		Where("is_predefined = ?", true).
		Order("id ASC").
		Find(&predefined).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return append(owned, predefined...), nil
}

func (r *roadmapRepository) GetByID(ctx context.Context, id uint) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	if err := r.db.WithContext(ctx).First(&roadmap, id).Error; err != nil {
		return nil, notFoundOr(err, "Roadmap", id)
	}
	return &roadmap, nil
}

func (r *roadmapRepository) Create(ctx context.Context, roadmap *models.Roadmap) error {
	if err := r.db.WithContext(ctx).Create(roadmap).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": roadmap.ID, "predefined": roadmap.IsPredefined})
	return nil
}

func (r *roadmapRepository) FindPredefinedByTitle(ctx context.Context, title string) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	err := r.db.WithContext(ctx).
		Where("title = ? AND is_predefined = ?", title, true).
		First(&roadmap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &roadmap, nil
}

func (r *roadmapRepository) CreateWithMilestones(ctx context.Context, roadmap *models.Roadmap, milestones []models.Milestone) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(roadmap).Error; err != nil {
			return err
		}
		if len(milestones) == 0 {
			return nil
		}
		for i := range milestones {
			milestones[i].RoadmapID = roadmap.ID
		}
		return tx.Create(&milestones).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "create_with_milestones")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": roadmap.ID, "milestones": len(milestones)})
	return nil
}

func (r *roadmapRepository) ListMilestones(ctx context.Context, roadmapID uint) ([]models.Milestone, error) {
	var milestones []models.Milestone
	if err := r.db.WithContext(ctx).
		Where("roadmap_id = ?", roadmapID).
		Order("day ASC").
		Order("id ASC").
		Find(&milestones).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return milestones, nil
}

func (r *roadmapRepository) GetMilestone(ctx context.Context, id uint) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := r.db.WithContext(ctx).First(&milestone, id).Error; err != nil {
		return nil, notFoundOr(err, "Milestone", id)
	}
	return &milestone, nil
}

func (r *roadmapRepository) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	if err := r.db.WithContext(ctx).Create(milestone).Error; err != nil {
		r.log.LogError(ctx, err, "create_milestone")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"milestone_id": milestone.ID, "roadmap_id": milestone.RoadmapID})
	return nil
}

func (r *roadmapRepository) MarkMilestoneCompleted(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Milestone{}).
		Where("id = ?", id).
		Update("is_completed", true)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "complete_milestone")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Milestone", id)
	}
	r.log.LogUpdate(ctx, map[string]any{"milestone_id": id, "is_completed": true})
	return nil
}
