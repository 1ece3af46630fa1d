package handlers

import (
	"github.com/copydesk/backend/internal/http/dto"
	"github.com/copydesk/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Options returns the fixed generation enumerations that drive the generate
// form selects.
func (h *MetaHandler) Options(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.MetaOptionsResponse{
		Channels:  models.Channels,
		Audiences: models.Audiences,
		Tones:     models.Tones,
	}})
}
