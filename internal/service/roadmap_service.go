package service

import (
	"context"
	"strings"

	"neuroflow/internal/models"
	"neuroflow/internal/repository"
	"neuroflow/internal/seed"
)

type RoadmapService struct {
	repo repository.RoadmapRepository
}

type CreateRoadmapInput struct {
	UserID      uint
	Title       string
	Description string
	Category    string
}

type CreateMilestoneInput struct {
	UserID      uint
	RoadmapID   uint
	Title       string
	Description string
	Day         int
	// BodyRoadmapID is the roadmap_id echoed in the request body, if any.
	BodyRoadmapID *uint
}

func NewRoadmapService(repo repository.RoadmapRepository) *RoadmapService {
	return &RoadmapService{repo: repo}
}

func (s *RoadmapService) List(ctx context.Context, userID uint) ([]models.Roadmap, error) {
	return s.repo.ListVisible(ctx, userID)
}

func (s *RoadmapService) Create(ctx context.Context, in CreateRoadmapInput) (*models.Roadmap, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if category == "" {
		return nil, models.NewValidationError("category is required")
	}

	owner := in.UserID
	roadmap := &models.Roadmap{
		Title:       title,
		Description: in.Description,
		Category:    category,
		OwnerID:     &owner,
	}
	if err := s.repo.Create(ctx, roadmap); err != nil {
		return nil, err
	}
	return roadmap, nil
}

// Get returns the roadmap if the caller may read it. Invisible roadmaps are
// reported as not found.
func (s *RoadmapService) Get(ctx context.Context, userID, id uint) (*models.Roadmap, error) {
	roadmap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !roadmap.VisibleTo(userID) {
		return nil, models.NewNotFoundError("Roadmap", id)
	}
	return roadmap, nil
}

func (s *RoadmapService) ListMilestones(ctx context.Context, userID, roadmapID uint) ([]models.Milestone, error) {
	if _, err := s.Get(ctx, userID, roadmapID); err != nil {
		return nil, err
	}
	return s.repo.ListMilestones(ctx, roadmapID)
}

// CreateMilestone requires strict ownership; a predefined roadmap is visible
// but not writable and yields Forbidden.
func (s *RoadmapService) CreateMilestone(ctx context.Context, in CreateMilestoneInput) (*models.Milestone, error) {
	roadmap, err := s.Get(ctx, in.UserID, in.RoadmapID)
	if err != nil {
		return nil, err
	}
	if !roadmap.OwnedBy(in.UserID) {
		return nil, models.NewForbiddenError("Not authorized to modify this roadmap")
	}

	if in.BodyRoadmapID != nil && *in.BodyRoadmapID != in.RoadmapID {
		return nil, models.NewValidationError("roadmap_id does not match the roadmap in the path")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if in.Day < 0 {
		return nil, models.NewValidationError("day cannot be negative")
	}

	milestone := &models.Milestone{
		Title:       title,
		Description: in.Description,
		Day:         in.Day,
		RoadmapID:   roadmap.ID,
	}
	if err := s.repo.CreateMilestone(ctx, milestone); err != nil {
		return nil, err
	}
	return milestone, nil
}

// CompleteMilestone is allowed for the roadmap owner and for anyone on a
// predefined roadmap.
func (s *RoadmapService) CompleteMilestone(ctx context.Context, userID, milestoneID uint) (*models.Milestone, error) {
	milestone, err := s.repo.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	roadmap, err := s.repo.GetByID(ctx, milestone.RoadmapID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewNotFoundError("Milestone", milestoneID)
		}
		return nil, err
	}
	if !roadmap.VisibleTo(userID) {
		return nil, models.NewNotFoundError("Milestone", milestoneID)
	}

	if err := s.repo.MarkMilestoneCompleted(ctx, milestoneID); err != nil {
		return nil, err
	}
	milestone.IsCompleted = true
	return milestone, nil
}

// SeedPredefined materializes the built-in catalog; repeated calls are no-ops.
func (s *RoadmapService) SeedPredefined(ctx context.Context) (*seed.PredefinedResult, error) {
	result, err := seed.PredefinedRoadmaps(ctx, s.repo)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

// MilestoneVisible reports whether the milestone exists on a roadmap the caller can read.
func (s *RoadmapService) MilestoneVisible(ctx context.Context, userID, milestoneID uint) (bool, error) {
	milestone, err := s.repo.GetMilestone(ctx, milestoneID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	roadmap, err := s.repo.GetByID(ctx, milestone.RoadmapID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return roadmap.VisibleTo(userID), nil
}
