package http

import (
	"time"

	"github.com/copydesk/backend/internal/config"
	"github.com/copydesk/backend/internal/http/handlers"
	"github.com/copydesk/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	contentHandler *handlers.ContentHandler,
	generateHandler *handlers.GenerateHandler,
	reviewHandler *handlers.ReviewHandler,
	exportHandler *handlers.ExportHandler,
	healthHandler *handlers.HealthHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(middleware.SessionGate(cfg, log))

	// Health check
	app.Get("/health", healthHandler.Check)

	// Auth
	app.Post("/login", middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute), authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	// Meta (public)
	metaHandler := handlers.NewMetaHandler()
	app.Get("/api/meta/options", metaHandler.Options)

	// Library (gate-protected prefix)
	app.Get("/library", contentHandler.List)
	app.Post("/library", contentHandler.Create)
	app.Get("/library/:id", contentHandler.Get)
	app.Post("/library/:id", contentHandler.Update)
	app.Post("/library/:id/delete", contentHandler.Delete)

	// Generation
	app.Post("/generate", generateHandler.Generate)

	// Review workflow
	app.Get("/review", reviewHandler.List)
	app.Post("/review/status", reviewHandler.UpdateStatus)
	app.Post("/api/review/bulk", middleware.RequireUserJSON(), reviewHandler.BulkUpdateStatus)

	// Export (read-only)
	app.Get("/export", exportHandler.List)
	app.Get("/export/download.txt", exportHandler.DownloadTXT)
	app.Get("/export/download.csv", exportHandler.DownloadCSV)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
