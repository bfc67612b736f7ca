package api

import (
	"errors"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/gofiber/fiber/v2"
)

// writeError maps task errors to HTTP responses. Errors without a task
// kind are logged and reported as 500 without their message.
func (m *APIModule) writeError(c *fiber.Ctx, err error) error {
	var e *domain.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case domain.KindValidation:
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation_error",
				Message: e.Message,
			})
		case domain.KindInvalidParameter:
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_parameter",
				Message: e.Message,
			})
		case domain.KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error:   "not_found",
				Message: e.Message,
			})
		}
	}

	m.logger.Error("Request failed",
		"method", c.Method(),
		"path", c.Path(),
		"user_id", requesterID(c),
		"error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "Internal Server Error",
	})
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
