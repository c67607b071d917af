package handlers

import (
	"github.com/gofiber/fiber/v2"

	"daymate/internal/models"
	"daymate/internal/services"
)

// ConversationHandler serves the conversation log
type ConversationHandler struct {
	messageService *services.MessageService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(messageService *services.MessageService) *ConversationHandler {
	return &ConversationHandler{messageService: messageService}
}

// List returns recent messages, oldest first
// GET /api/conversation?limit=100
func (h *ConversationHandler) List(c *fiber.Ctx) error {
	messages, err := h.messageService.List(c.Context(), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversation",
		})
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// Append adds a user message to the log
// POST /api/conversation
func (h *ConversationHandler) Append(c *fiber.Ctx) error {
	var req models.AppendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content is required",
		})
	}
	if req.Role != "" && req.Role != models.RoleUser {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "only user messages can be appended here",
		})
	}

	msg, err := h.messageService.AppendUser(c.Context(), req.Content)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to append message",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
