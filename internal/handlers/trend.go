package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"daymate/internal/models"
	"daymate/internal/services"
)

// TrendHandler handles trend-briefing HTTP requests
type TrendHandler struct {
	trendService *services.TrendService
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(trendService *services.TrendService) *TrendHandler {
	return &TrendHandler{trendService: trendService}
}

// List returns all trend items
// GET /api/trends
func (h *TrendHandler) List(c *fiber.Ctx) error {
	items, err := h.trendService.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load trend items",
		})
	}
	return c.JSON(fiber.Map{"trends": items})
}

// Create adds a trend item
// POST /api/trends
func (h *TrendHandler) Create(c *fiber.Ctx) error {
	var req models.CreateTrendItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.trendService.Create(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// MarkRead flags a trend item as read
// POST /api/trends/:id/read
func (h *TrendHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.trendService.MarkRead(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Trend item not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark trend item read",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
