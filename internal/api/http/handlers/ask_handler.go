package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AskHandler relays dashboard questions to the AI gateway.
type AskHandler struct {
	service *service.AskService
}

// NewAskHandler constructs handler.
func NewAskHandler(askService *service.AskService) *AskHandler {
	return &AskHandler{service: askService}
}

// Ask POST /ask.
func (h *AskHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Question is required", map[string]any{"field": "question"})
	}
	answer, err := h.service.Ask(c.UserContext(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(dto.AskResponse{Response: answer})
}
