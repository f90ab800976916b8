package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"neuroflow/internal/models"
	"neuroflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+strings.ToUpper(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the request body into dest, writing a 400 on malformed input.
func parseBody(c *fiber.Ctx, dest any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseStrictBody decodes a JSON patch body into dest and rejects fields dest
// does not declare.
func parseStrictBody(c *fiber.Ctx, dest any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		msg := "Invalid request body"
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			msg = "Unknown field " + field
		}
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(msg))
		return errResponseWritten
	}
	return nil
}

// currentUserID returns the ID stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}

func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localUser).(*models.User)
	return u
}

func currentClaims(c *fiber.Ctx) *service.TokenClaims {
	claims, _ := c.Locals(localClaims).(*service.TokenClaims)
	return claims
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, models.NewValidationError(key + " must be a boolean")
	}
	return &v, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, models.NewValidationError(key + " must be an integer")
	}
	return &v, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, models.NewValidationError(key + " must be a number")
	}
	return &v, nil
}

func queryString(c *fiber.Ctx, key string) *string {
	if !c.Context().QueryArgs().Has(key) {
		return nil
	}
	v := c.Query(key)
	return &v
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusForbidden:
		return models.CodeForbidden
	case fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case fiber.StatusConflict:
		return models.CodeConflict
	case fiber.StatusInternalServerError:
		return models.CodeInternal
	}
	if status >= 400 && status < 500 {
		return models.CodeValidation
	}
	return models.CodeInternal
}

func messageResponse(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"message": message})
}
