package server

import (
	"time"

	"neuroflow/internal/models"
	"neuroflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueDate        *time.Time `json:"due_date"`
	Priority       string     `json:"priority"`
	EstimatedHours *float64   `json:"estimated_hours"`
	MilestoneID    *uint      `json:"milestone_id"`
}

type completeTaskRequest struct {
	ActualHours *float64 `json:"actual_hours"`
}

// ListTasks handles GET /api/tasks
// @Summary List tasks
// @Description The caller's tasks ordered by due date
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Task
// @Router /tasks [get]
func (s *Server) ListTasks(c *fiber.Ctx) error {
	tasks, err := s.taskService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(tasks)
}

// CreateTask handles POST /api/tasks
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createTaskRequest true "Task"
// @Success 200 {object} models.Task
// @Failure 400 {object} models.ErrorResponse
// @Router /tasks [post]
func (s *Server) CreateTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	task, err := s.taskService.Create(c.UserContext(), service.CreateTaskInput{
		UserID:         currentUserID(c),
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
		MilestoneID:    req.MilestoneID,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(task)
}

// TodayTasks handles GET /api/tasks/today/
// @Summary Tasks due today
// @Description Incomplete tasks due on the current day, highest priority first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Task
// @Router /tasks/today/ [get]
func (s *Server) TodayTasks(c *fiber.Ctx) error {
	tasks, err := s.taskService.DueToday(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(tasks)
}

// GetTask handles GET /api/tasks/:id
// @Summary Get task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/{id} [get]
func (s *Server) GetTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	task, err := s.taskService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(task)
}

// UpdateTask handles PUT /api/tasks/:id
// @Summary Update task
// @Description Only supplied fields are changed
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body models.TaskPatch true "Fields to change"
// @Success 200 {object} models.Task
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/{id} [put]
func (s *Server) UpdateTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var patch models.TaskPatch
	if err := parseStrictBody(c, &patch); err != nil {
		return nil
	}

	task, err := s.taskService.Update(c.UserContext(), service.UpdateTaskInput{
		UserID: currentUserID(c),
		TaskID: id,
		Patch:  patch,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(task)
}

// CompleteTask handles PUT /api/tasks/:id/complete
// @Summary Complete task
// @Description actual_hours may be sent as a query parameter or in the JSON body
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param actual_hours query number false "Hours spent"
// @Success 200 {object} object{message=string,task=models.Task}
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/{id}/complete [put]
func (s *Server) CompleteTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	hours, err := queryFloat(c, "actual_hours")
	if err != nil {
		return models.Respond(c, err)
	}
	if hours == nil {
		var req completeTaskRequest
		if err := parseBody(c, &req); err != nil {
			return nil
		}
		hours = req.ActualHours
	}

	task, err := s.taskService.Complete(c.UserContext(), currentUserID(c), id, hours)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Task completed successfully",
		"task":    task,
	})
}

// DeleteTask handles DELETE /api/tasks/:id
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/{id} [delete]
func (s *Server) DeleteTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.taskService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return models.Respond(c, err)
	}
	return messageResponse(c, "Task deleted successfully")
}
