package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/copydesk/backend/internal/config"
	"github.com/copydesk/backend/internal/db"
	"github.com/copydesk/backend/internal/events"
	apphttp "github.com/copydesk/backend/internal/http"
	"github.com/copydesk/backend/internal/http/handlers"
	"github.com/copydesk/backend/internal/repositories"
	"github.com/copydesk/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	contentRepo := repositories.NewContentRepo(pool)
	variantRepo := repositories.NewVariantRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	webhookClient := services.NewWebhookClient(cfg.WebhookURL, cfg.WebhookTimeout, log)
	contentService := services.NewContentService(contentRepo, auditRepo, log)
	variantService := services.NewVariantService(variantRepo, auditRepo, publisher, log)
	generationService := services.NewGenerationService(contentRepo, variantRepo, webhookClient, publisher, log)
	exportService := services.NewExportService(variantRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg, log)
	contentHandler := handlers.NewContentHandler(contentService, log)
	generateHandler := handlers.NewGenerateHandler(generationService, log)
	reviewHandler := handlers.NewReviewHandler(variantService, log)
	exportHandler := handlers.NewExportHandler(exportService, log)
	healthHandler := handlers.NewHealthHandler(pool, cfg)
	wsHub := handlers.NewWSHub(subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, contentHandler, generateHandler, reviewHandler, exportHandler, healthHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
