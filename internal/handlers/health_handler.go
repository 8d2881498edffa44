package handlers

import (
	"time"

	"tokoproduk/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports whether the service can reach its store.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check answers 200 when the database responds to a ping and 503 otherwise.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	now := time.Now().Format(time.RFC3339)

	if err := database.Ping(c.UserContext(), h.db); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "disconnected",
			"time":     now,
		})
	}

	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "connected",
		"time":     now,
	})
}
