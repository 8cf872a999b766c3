package handler

import (
	"context"
	"time"

	"skillbridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
	now   func() time.Time
}

// NewHealthHandler takes optional dependency pingers; nil ones are skipped.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Liveness)
	r.Get("/api/health", h.Status)
}

func (h *HealthHandler) Liveness(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"status": "up"})
}

func (h *HealthHandler) Status(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := fiber.Map{
		"message":   "SkillBridge API is running!",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"database":  pingStatus(ctx, h.db),
		"cache":     pingStatus(ctx, h.cache),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
