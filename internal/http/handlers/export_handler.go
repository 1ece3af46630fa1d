package handlers

import (
	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/http/dto"
	"github.com/copydesk/backend/internal/middleware"
	"github.com/copydesk/backend/internal/models"
	"github.com/copydesk/backend/internal/repositories"
	"github.com/copydesk/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService *services.ExportService
	log           *zap.Logger
}

func NewExportHandler(exportService *services.ExportService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, log: log}
}

func (h *ExportHandler) List(c *fiber.Ctx) error {
	items, err := h.list(c)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

func (h *ExportHandler) DownloadTXT(c *fiber.Ctx) error {
	items, err := h.list(c)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="approved-variants.txt"`)
	return c.SendString(services.RenderText(items))
}

func (h *ExportHandler) DownloadCSV(c *fiber.Ctx) error {
	items, err := h.list(c)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}

	out, err := services.RenderCSV(items)
	if err != nil {
		h.log.Error("csv render failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="approved-variants.csv"`)
	return c.Send(out)
}

func (h *ExportHandler) list(c *fiber.Ctx) ([]models.VariantWithSource, error) {
	userID := middleware.GetUserID(c)
	filter := repositories.ExportFilter{
		Channel:    c.Query("channel"),
		Audience:   c.Query("audience"),
		Tone:       c.Query("tone"),
		TitleQuery: c.Query("q"),
	}
	return h.exportService.List(c.Context(), userID, filter)
}
