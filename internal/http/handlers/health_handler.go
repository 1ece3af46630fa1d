package handlers

import (
	"context"
	"time"

	"github.com/copydesk/backend/internal/config"
	"github.com/copydesk/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	pool *pgxpool.Pool
	cfg  *config.Config
}

func NewHealthHandler(pool *pgxpool.Pool, cfg *config.Config) *HealthHandler {
	return &HealthHandler{pool: pool, cfg: cfg}
}

// Check reports the datastore and webhook configuration states. A missing
// webhook URL is degraded (503), not fatal.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	checks := make([]dto.HealthCheck, 0, 2)

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := h.pool.Ping(ctx); err != nil {
		checks = append(checks, dto.HealthCheck{Name: "postgres", Status: "error", Message: err.Error()})
	} else {
		checks = append(checks, dto.HealthCheck{Name: "postgres", Status: "ok"})
	}

	if !h.cfg.WebhookConfigured() {
		checks = append(checks, dto.HealthCheck{
			Name:    "webhook",
			Status:  "error",
			Message: "GENERATION_WEBHOOK_URL is not set.",
		})
	} else {
		checks = append(checks, dto.HealthCheck{
			Name:    "webhook",
			Status:  "ok",
			Message: "Webhook URL configured. Ensure the workflow is active.",
		})
	}

	allOK := true
	for _, chk := range checks {
		if chk.Status != "ok" {
			allOK = false
		}
	}

	status := fiber.StatusOK
	if !allOK {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(dto.HealthResponse{OK: allOK, Checks: checks})
}
