package main

import (
	"context"
	"os"

	"github.com/copydesk/backend/internal/auth"
	"github.com/copydesk/backend/internal/config"
	"github.com/copydesk/backend/internal/db"
	"github.com/copydesk/backend/internal/models"
	"github.com/copydesk/backend/internal/repositories"
	"go.uber.org/zap"
)

// Seeds a demo user and a few approved-content rows so the workflow can be
// exercised end to end without signing up first.
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()

	email := getenv("SEED_USER_EMAIL", "test@example.com")
	password := getenv("SEED_USER_PASSWORD", "test-password-seed")

	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}

	userRepo := repositories.NewUserRepo(pool)
	user, err := userRepo.UpsertByEmail(ctx, email, hash)
	if err != nil {
		log.Fatal("failed to upsert seed user", zap.Error(err))
	}
	log.Info("seed user ready", zap.String("email", user.Email))

	contentRepo := repositories.NewContentRepo(pool)
	for _, c := range seedContent {
		c.UserID = user.ID
		if err := contentRepo.Create(ctx, &c); err != nil {
			log.Fatal("failed to insert seed content", zap.String("title", c.Title), zap.Error(err))
		}
		log.Info("seed content inserted", zap.String("title", c.Title))
	}

	log.Info("seeding completed")
}

var seedContent = []models.ApprovedContent{
	{
		Title:    "Brand campaign – Q1 awareness",
		Body:     "Our treatment has been shown to improve outcomes in adults. Always follow your healthcare provider's guidance. This is not medical advice.",
		Brand:    ptr("Brand A"),
		Campaign: ptr("Q1 Awareness"),
	},
	{
		Title:    "Patient support program",
		Body:     "Join our patient support program for resources and tips. Speak to your HCP about whether this program is right for you.",
		Brand:    ptr("Brand A"),
		Campaign: ptr("Patient Support"),
	},
	{
		Title:    "HCP education snippet",
		Body:     "Key efficacy data from the Phase 3 study. For full prescribing information, refer to the label.",
		Brand:    ptr("Brand B"),
		Campaign: ptr("HCP Education"),
	},
}

func ptr(s string) *string { return &s }

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
