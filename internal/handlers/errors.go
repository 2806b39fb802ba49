package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/models"
	"alfredoptarigan/resume-evaluator/internal/services"
)

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	var unsupported *services.UnsupportedFileTypeError
	var extraction *services.ExtractionError
	var fe *fiber.Error

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &unsupported):
		return fiber.StatusUnsupportedMediaType
	case errors.As(err, &extraction):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, llm.ErrTransport),
		errors.Is(err, services.ErrOutputParse),
		errors.Is(err, services.ErrOutputShapeMismatch):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	return c.Status(code).JSON(models.ErrorResponse{Error: err.Error(), Code: code})
}

// ErrorHandler is the fiber error handler for the whole app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
