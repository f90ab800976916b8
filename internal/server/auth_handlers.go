package server

import (
	"neuroflow/internal/models"
	"neuroflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an account and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration"
// @Success 201 {object} service.IssuedToken
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	issued, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(issued)
}

// Token handles POST /api/auth/token
// @Summary Log in
// @Description Exchange a username (or email) and password for an access token. Accepts form or JSON.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body tokenRequest true "Credentials"
// @Success 200 {object} service.IssuedToken
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/token [post]
func (s *Server) Token(c *fiber.Ctx) error {
	var req tokenRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	issued, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(issued)
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Revoke the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), currentClaims(c)); err != nil {
		return models.Respond(c, err)
	}
	return messageResponse(c, "Logged out successfully")
}
