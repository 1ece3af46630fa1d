package handlers

import (
	"strings"

	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/http/dto"
	"github.com/copydesk/backend/internal/middleware"
	"github.com/copydesk/backend/internal/models"
	"github.com/copydesk/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	variantService *services.VariantService
	log            *zap.Logger
}

func NewReviewHandler(variantService *services.VariantService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{variantService: variantService, log: log}
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}

	items, err := h.variantService.ListForReview(c.Context(), userID, status)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

// UpdateStatus handles the per-row action buttons. Bad input is a silent
// no-op and store failures only log; either way the client is sent back to
// the review screen, which re-queries fresh rows.
func (h *ReviewHandler) UpdateStatus(c *fiber.Ctx) error {
	variantID, err := uuid.Parse(strings.TrimSpace(c.FormValue("variantId")))
	status := strings.TrimSpace(c.FormValue("status"))
	if err != nil || !models.IsValidStatus(status) {
		return c.Redirect("/review", fiber.StatusSeeOther)
	}

	userID := middleware.GetUserID(c)
	if err := h.variantService.UpdateStatus(c.Context(), userID, variantID, status); err != nil {
		h.log.Warn("variant status update failed",
			zap.String("variant_id", variantID.String()),
			zap.String("status", status),
			zap.Error(err))
	}
	return c.Redirect("/review", fiber.StatusSeeOther)
}

// BulkUpdateStatus applies one target status to a set of variants.
func (h *ReviewHandler) BulkUpdateStatus(c *fiber.Ctx) error {
	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid JSON body."})
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid variant id: " + raw})
		}
		ids = append(ids, id)
	}

	userID := middleware.GetUserID(c)
	count, err := h.variantService.UpdateStatusBulk(c.Context(), userID, ids, req.Status)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(dto.ErrorResponse{Error: apperr.UserMessage(err)})
	}

	return c.JSON(dto.GenerateResponse{OK: true, Count: int(count)})
}
