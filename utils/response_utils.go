package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"viralclips/internal/apiclient"
	"viralclips/internal/tracker"
	"viralclips/internal/worker"
	"viralclips/models"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// RespondWithValidationErrors sends a 400 listing every failed field.
func RespondWithValidationErrors(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Validation failed",
		"errors":  FormatValidationErrors(err),
	})
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var errs []string
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		if err != nil {
			errs = append(errs, err.Error())
		}
		return errs
	}
	for _, fe := range validationErrors {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, fe.Param())
		}
		errs = append(errs, element)
	}
	return errs
}

// StatusForError maps an error from the backend client or the gateway's own
// state to the HTTP status and message returned to the caller.
func StatusForError(err error) (int, string) {
	var apiErr *apiclient.Error
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Kind == apiclient.HTTPStatusError && apiErr.StatusCode >= 400 && apiErr.StatusCode < 600 {
			return apiErr.StatusCode, apiErr.Message
		}
		return fiber.StatusBadGateway, fmt.Sprintf("Backend unavailable: %s", apiErr.Message)
	case errors.Is(err, models.ErrInvalidTimeRange):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, tracker.ErrInFlight):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		return fiber.StatusServiceUnavailable, err.Error()
	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}

// RespondWithClientError renders err using StatusForError.
func RespondWithClientError(c *fiber.Ctx, err error) error {
	status, message := StatusForError(err)
	return RespondWithError(c, status, message)
}

// SanitizeInput trims surrounding whitespace.
func SanitizeInput(input string) string {
	return strings.TrimSpace(input)
}
