package handlers

import (
	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/http/dto"
	"github.com/copydesk/backend/internal/middleware"
	"github.com/copydesk/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GenerateHandler struct {
	generationService *services.GenerationService
	log               *zap.Logger
}

func NewGenerateHandler(generationService *services.GenerationService, log *zap.Logger) *GenerateHandler {
	return &GenerateHandler{generationService: generationService, log: log}
}

func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid JSON body."})
	}

	contentID, err := uuid.Parse(req.ApprovedContentID)
	if err != nil {
		contentID = uuid.Nil // service rejects it with the full validation message
	}

	userID := middleware.GetUserID(c)
	count, err := h.generationService.Generate(c.Context(), userID, services.GenerateRequest{
		ApprovedContentID: contentID,
		Channel:           req.Channel,
		Audience:          req.Audience,
		Tone:              req.Tone,
	})
	if err != nil {
		h.log.Warn("generation failed", zap.Error(err))
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}

	return c.JSON(dto.GenerateResponse{OK: true, Count: count})
}
