package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"daymate/internal/models"
	"daymate/internal/services"
)

// GoalHandler handles goal-related HTTP requests
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// List returns all goals
// GET /api/goals
func (h *GoalHandler) List(c *fiber.Ctx) error {
	goals, err := h.goalService.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load goals",
		})
	}
	return c.JSON(fiber.Map{"goals": goals})
}

// Create creates a goal
// POST /api/goals
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := h.goalService.Create(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

// Update applies a partial update (title, progress, completed)
// PATCH /api/goals/:id
func (h *GoalHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := h.goalService.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Goal not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(goal)
}

// Delete removes a goal
// DELETE /api/goals/:id
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	if err := h.goalService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Goal not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete goal",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
