package server

import (
	"neuroflow/internal/models"
	"neuroflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createRoadmapRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type createMilestoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Day         int    `json:"day"`
	RoadmapID   *uint  `json:"roadmap_id"`
}

// ListRoadmaps handles GET /api/roadmaps
// @Summary List roadmaps
// @Description The caller's roadmaps followed by the predefined ones
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Roadmap
// @Router /roadmaps [get]
func (s *Server) ListRoadmaps(c *fiber.Ctx) error {
	roadmaps, err := s.roadmapService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(roadmaps)
}

// CreateRoadmap handles POST /api/roadmaps
// @Summary Create roadmap
// @Tags roadmaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createRoadmapRequest true "Roadmap"
// @Success 200 {object} models.Roadmap
// @Failure 400 {object} models.ErrorResponse
// @Router /roadmaps [post]
func (s *Server) CreateRoadmap(c *fiber.Ctx) error {
	var req createRoadmapRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	roadmap, err := s.roadmapService.Create(c.UserContext(), service.CreateRoadmapInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(roadmap)
}

// SeedPredefinedRoadmaps handles POST /api/roadmaps/predefined
// @Summary Seed predefined roadmaps
// @Description Idempotently creates the built-in roadmap catalog
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Success 200 {string} string
// @Router /roadmaps/predefined [post]
func (s *Server) SeedPredefinedRoadmaps(c *fiber.Ctx) error {
	if _, err := s.roadmapService.SeedPredefined(c.UserContext()); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON("Predefined roadmaps seeded successfully")
}

// GetRoadmap handles GET /api/roadmaps/:id
// @Summary Get roadmap
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Roadmap ID"
// @Success 200 {object} models.Roadmap
// @Failure 404 {object} models.ErrorResponse
// @Router /roadmaps/{id} [get]
func (s *Server) GetRoadmap(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	roadmap, err := s.roadmapService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(roadmap)
}

// ListMilestones handles GET /api/roadmaps/:id/milestones
// @Summary List milestones
// @Description Ordered by day ascending
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Roadmap ID"
// @Success 200 {array} models.Milestone
// @Failure 404 {object} models.ErrorResponse
// @Router /roadmaps/{id}/milestones [get]
func (s *Server) ListMilestones(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	milestones, err := s.roadmapService.ListMilestones(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(milestones)
}

// CreateMilestone handles POST /api/roadmaps/:id/milestones
// @Summary Create milestone
// @Tags roadmaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Roadmap ID"
// @Param request body createMilestoneRequest true "Milestone"
// @Success 200 {object} models.Milestone
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /roadmaps/{id}/milestones [post]
func (s *Server) CreateMilestone(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req createMilestoneRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	milestone, err := s.roadmapService.CreateMilestone(c.UserContext(), service.CreateMilestoneInput{
		UserID:        currentUserID(c),
		RoadmapID:     id,
		Title:         req.Title,
		Description:   req.Description,
		Day:           req.Day,
		BodyRoadmapID: req.RoadmapID,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(milestone)
}

// CompleteMilestone handles PUT /api/roadmaps/milestones/:id/complete
// @Summary Complete milestone
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Milestone ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /roadmaps/milestones/{id}/complete [put]
func (s *Server) CompleteMilestone(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.roadmapService.CompleteMilestone(c.UserContext(), currentUserID(c), id); err != nil {
		return models.Respond(c, err)
	}
	return messageResponse(c, "Milestone completed successfully")
}
