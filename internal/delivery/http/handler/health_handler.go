package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing store is reachable; *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.db != nil {
		if err := h.db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
