package server

import (
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createHabitRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	TargetFrequency *int   `json:"target_frequency"`
}

type habitEntryRequest struct {
	Date      *time.Time `json:"date"`
	Completed *bool      `json:"completed"`
	Notes     *string    `json:"notes"`
	Rating    *int       `json:"rating"`
	HabitID   *uint      `json:"habit_id"`
}

type quickLogRequest struct {
	HabitID   *uint   `json:"habit_id"`
	Completed *bool   `json:"completed"`
	Notes     *string `json:"notes"`
	Rating    *int    `json:"rating"`
}

// ListHabits handles GET /api/habits
// @Summary List habits
// @Description The caller's active habits
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Habit
// @Router /habits [get]
func (s *Server) ListHabits(c *fiber.Ctx) error {
	habits, err := s.habitService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(habits)
}

// CreateHabit handles POST /api/habits
// @Summary Create habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createHabitRequest true "Habit"
// @Success 200 {object} models.Habit
// @Failure 400 {object} models.ErrorResponse
// @Router /habits [post]
func (s *Server) CreateHabit(c *fiber.Ctx) error {
	var req createHabitRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	freq := 1
	if req.TargetFrequency != nil {
		freq = *req.TargetFrequency
	}

	habit, err := s.habitService.Create(c.UserContext(), service.CreateHabitInput{
		UserID:          currentUserID(c),
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		TargetFrequency: freq,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(habit)
}

// TodayHabits handles GET /api/habits/today/
// @Summary Today's habit status
// @Description Every active habit with today's entry, defaulted when absent
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.TodayStatus
// @Router /habits/today/ [get]
func (s *Server) TodayHabits(c *fiber.Ctx) error {
	statuses, err := s.habitService.Today(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(statuses)
}

// QuickLogHabit handles POST /api/habits/quick-log
// @Summary Quick-log a habit for today
// @Description Parameters may be sent as query parameters or a JSON body
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param habit_id query int false "Habit ID"
// @Param completed query bool false "Completed"
// @Param rating query int false "Rating"
// @Param notes query string false "Notes"
// @Success 200 {object} service.QuickLogResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /habits/quick-log [post]
func (s *Server) QuickLogHabit(c *fiber.Ctx) error {
	var req quickLogRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if raw, err := queryInt(c, "habit_id"); err != nil {
		return models.Respond(c, err)
	} else if raw != nil {
		if *raw <= 0 {
			return models.Respond(c, models.NewValidationError("habit_id must be positive"))
		}
		id := uint(*raw)
		req.HabitID = &id
	}
	if v, err := queryBool(c, "completed"); err != nil {
		return models.Respond(c, err)
	} else if v != nil {
		req.Completed = v
	}
	if v, err := queryInt(c, "rating"); err != nil {
		return models.Respond(c, err)
	} else if v != nil {
		req.Rating = v
	}
	if v := queryString(c, "notes"); v != nil {
		req.Notes = v
	}

	if req.HabitID == nil {
		return models.Respond(c, models.NewValidationError("habit_id is required"))
	}

	result, err := s.habitService.QuickLog(c.UserContext(), service.QuickLogInput{
		UserID:    currentUserID(c),
		HabitID:   *req.HabitID,
		Completed: req.Completed,
		Notes:     req.Notes,
		Rating:    req.Rating,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(result)
}

// GetHabit handles GET /api/habits/:id
// @Summary Get habit
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Habit ID"
// @Success 200 {object} models.Habit
// @Failure 404 {object} models.ErrorResponse
// @Router /habits/{id} [get]
func (s *Server) GetHabit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	habit, err := s.habitService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(habit)
}

// UpdateHabit handles PUT /api/habits/:id
// @Summary Update habit
// @Description Only supplied fields are changed
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Habit ID"
// @Param request body models.HabitPatch true "Fields to change"
// @Success 200 {object} models.Habit
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /habits/{id} [put]
func (s *Server) UpdateHabit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var patch models.HabitPatch
	if err := parseStrictBody(c, &patch); err != nil {
		return nil
	}

	habit, err := s.habitService.Update(c.UserContext(), service.UpdateHabitInput{
		UserID:  currentUserID(c),
		HabitID: id,
		Patch:   patch,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(habit)
}

// DeleteHabit handles DELETE /api/habits/:id
// @Summary Deactivate habit
// @Description Soft delete; entries are kept
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Habit ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /habits/{id} [delete]
func (s *Server) DeleteHabit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.habitService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return models.Respond(c, err)
	}
	return messageResponse(c, "Habit deleted successfully")
}

// ListHabitEntries handles GET /api/habits/:id/entries
// @Summary List habit entries
// @Description Newest date first
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Habit ID"
// @Success 200 {array} models.HabitEntry
// @Failure 404 {object} models.ErrorResponse
// @Router /habits/{id}/entries [get]
func (s *Server) ListHabitEntries(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	entries, err := s.habitService.ListEntries(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(entries)
}

// CreateHabitEntry handles POST /api/habits/:id/entries
// @Summary Log a habit entry
// @Description Upserts the entry for the calendar day of date; omitted fields keep stored values
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Habit ID"
// @Param request body habitEntryRequest true "Entry"
// @Success 200 {object} models.HabitEntry
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /habits/{id}/entries [post]
func (s *Server) CreateHabitEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req habitEntryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.HabitID != nil && *req.HabitID != id {
		return models.Respond(c, models.NewValidationError("habit_id does not match the habit in the path"))
	}

	in := service.LogEntryInput{
		UserID:    currentUserID(c),
		HabitID:   id,
		Completed: req.Completed,
		Notes:     req.Notes,
		Rating:    req.Rating,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	entry, _, err := s.habitService.LogEntry(c.UserContext(), in)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(entry)
}
