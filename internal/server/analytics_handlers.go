package server

import (
	"neuroflow/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsOverview handles GET /api/analytics/overview
// @Summary Dashboard overview
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Overview
// @Router /analytics/overview [get]
func (s *Server) AnalyticsOverview(c *fiber.Ctx) error {
	out, err := s.analyticsService.Overview(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(out)
}

// AnalyticsProductivity handles GET /api/analytics/productivity
// @Summary Time by priority and eight-week trend
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Productivity
// @Router /analytics/productivity [get]
func (s *Server) AnalyticsProductivity(c *fiber.Ctx) error {
	out, err := s.analyticsService.Productivity(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(out)
}

// AnalyticsHabits handles GET /api/analytics/habits
// @Summary Thirty-day habit completion
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{habits=[]service.HabitStat}
// @Router /analytics/habits [get]
func (s *Server) AnalyticsHabits(c *fiber.Ctx) error {
	out, err := s.analyticsService.Habits(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"habits": out})
}

// AnalyticsStreaks handles GET /api/analytics/streaks
// @Summary Current streaks
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{streaks=[]service.Streak}
// @Router /analytics/streaks [get]
func (s *Server) AnalyticsStreaks(c *fiber.Ctx) error {
	out, err := s.analyticsService.Streaks(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"streaks": out})
}
