package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"daymate/internal/models"
	"daymate/internal/services"
)

// ScheduleHandler handles schedule-related HTTP requests
type ScheduleHandler struct {
	scheduleService   *services.ScheduleService
	recurrenceService *services.RecurrenceService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *services.ScheduleService, recurrenceService *services.RecurrenceService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService:   scheduleService,
		recurrenceService: recurrenceService,
	}
}

// ListToday returns today's schedule
// GET /api/schedules/today
func (h *ScheduleHandler) ListToday(c *fiber.Ctx) error {
	schedules, err := h.scheduleService.ListToday(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load schedules",
		})
	}
	return c.JSON(fiber.Map{"schedules": schedules})
}

// Create creates a new schedule
// POST /api/schedules
func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var req models.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := h.scheduleService.Create(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

// Update applies a partial update (text, times, completed, skipped)
// PATCH /api/schedules/:id
func (h *ScheduleHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := h.scheduleService.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Schedule not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(schedule)
}

// Delete removes a schedule
// DELETE /api/schedules/:id
func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	if err := h.scheduleService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Schedule not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete schedule",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateRule creates a recurring schedule rule
// POST /api/schedules/rules
func (h *ScheduleHandler) CreateRule(c *fiber.Ctx) error {
	var req models.CreateScheduleRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rule, err := h.recurrenceService.CreateRule(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// ListRules returns all recurring rules
// GET /api/schedules/rules
func (h *ScheduleHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.recurrenceService.ListRules(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load rules",
		})
	}
	return c.JSON(fiber.Map{"rules": rules})
}

// DeleteRule removes a recurring rule
// DELETE /api/schedules/rules/:id
func (h *ScheduleHandler) DeleteRule(c *fiber.Ctx) error {
	if err := h.recurrenceService.DeleteRule(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Rule not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete rule",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
