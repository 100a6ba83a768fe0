package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckHandler struct {
	db Pinger
}

func NewCheckHandler(db Pinger) *CheckHandler {
	return &CheckHandler{db: db}
}

func (h *CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return NewError(fiber.StatusServiceUnavailable, "database unreachable")
	}
	return c.JSON(fiber.Map{"result": "ok"})
}
