package handlers

import (
	"strings"

	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/http/dto"
	"github.com/copydesk/backend/internal/middleware"
	"github.com/copydesk/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContentHandler struct {
	contentService *services.ContentService
	log            *zap.Logger
}

func NewContentHandler(contentService *services.ContentService, log *zap.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, log: log}
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	items, err := h.contentService.List(c.Context(), userID)
	if err != nil {
		h.log.Error("list content failed", zap.Error(err))
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

// Create handles the new-content form and redirects back on failure.
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	fields := contentFieldsFromForm(c)

	if _, err := h.contentService.Create(c.Context(), userID, fields); err != nil {
		return redirectWithError(c, "/library/new", apperr.UserMessage(err))
	}
	return c.Redirect("/library", fiber.StatusSeeOther)
}

func (h *ContentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid content id"})
	}

	userID := middleware.GetUserID(c)
	content, err := h.contentService.GetByID(c.Context(), id, userID)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: content})
}

// Update handles the edit form and redirects back to the edit screen on
// failure so the message can be shown inline.
func (h *ContentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/library", fiber.StatusSeeOther)
	}

	userID := middleware.GetUserID(c)
	fields := contentFieldsFromForm(c)

	if err := h.contentService.Update(c.Context(), id, userID, fields); err != nil {
		return redirectWithError(c, "/library/"+id.String()+"/edit", apperr.UserMessage(err))
	}
	return c.Redirect("/library", fiber.StatusSeeOther)
}

func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid content id"})
	}

	userID := middleware.GetUserID(c)
	if err := h.contentService.Delete(c.Context(), id, userID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}
	return c.Redirect("/library", fiber.StatusSeeOther)
}

func contentFieldsFromForm(c *fiber.Ctx) services.ContentFields {
	fields := services.ContentFields{
		Title: c.FormValue("title"),
		Body:  c.FormValue("body"),
	}
	if brand := strings.TrimSpace(c.FormValue("brand")); brand != "" {
		fields.Brand = &brand
	}
	if campaign := strings.TrimSpace(c.FormValue("campaign")); campaign != "" {
		fields.Campaign = &campaign
	}
	return fields
}
