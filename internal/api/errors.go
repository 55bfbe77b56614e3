package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"todo/internal/apperr"
)

// errorStatus maps an application error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case apperr.IsValidation(err):
		return fiber.StatusBadRequest, "bad_request"
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict, "conflict"
	case errors.Is(err, apperr.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "unauthorized"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

// respondError writes err as an ErrorResponse. Internal errors are logged and
// replaced by a generic message.
func respondError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	status, code := errorStatus(err)
	message := err.Error()
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		message = ve.Message
	}
	if status == fiber.StatusInternalServerError {
		logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		message = "An internal error occurred"
	}
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: message})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: "Task not found",
	})
}

// errorHandler handles errors returned by handlers and fiber itself.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse{
				Error:   "server_error",
				Message: fe.Message,
			})
		}
		return respondError(c, logger, err)
	}
}
