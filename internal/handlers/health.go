package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"daymate/internal/health"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	startedAt     time.Time
	healthService *health.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthService *health.Service) *HealthHandler {
	return &HealthHandler{startedAt: time.Now(), healthService: healthService}
}

// Handle responds with the server and dependency health status
// GET /health
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	h.healthService.Check(c.Context())

	overall := h.healthService.Overall()
	code := fiber.StatusOK
	if overall == health.StatusUnhealthy {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":     overall,
		"components": h.healthService.Snapshot(),
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
