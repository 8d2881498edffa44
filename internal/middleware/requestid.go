package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID is the header carrying the request ID.
const HeaderRequestID = "X-Request-ID"

const (
	localRequestID = "request_id"
	localLogger    = "logger"
)

// RequestLogger assigns every request an ID (reusing a client-supplied one),
// stores a request-scoped logger in the context and logs the request once it
// has been answered. Handler errors are resolved through the app's error
// handler here so the logged status is the one the client receives.
func RequestLogger(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(HeaderRequestID, requestID)
		c.Locals(localRequestID, requestID)

		log := base.With(zap.String("request_id", requestID))
		c.Locals(localLogger, log)

		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				log.Error("Error handler failed", zap.Error(handlerErr))
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Info("HTTP Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return nil
	}
}

// Logger returns the request-scoped logger, or fallback outside a request
// that went through RequestLogger.
func Logger(c *fiber.Ctx, fallback *zap.Logger) *zap.Logger {
	if log, ok := c.Locals(localLogger).(*zap.Logger); ok {
		return log
	}
	return fallback
}

// RequestID returns the ID assigned to the current request.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}
