package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler returns the app-level error handler. Fiber errors keep their
// status and message; anything else is logged and answered with a 500.
func ErrorHandler(base *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if errors.As(err, &e) {
			return c.Status(e.Code).JSON(fiber.Map{
				"error": e.Message,
			})
		}

		Logger(c, base).Error("Unexpected error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
