package handlers

import (
	"net/url"
	"strings"

	"github.com/copydesk/backend/internal/auth"
	"github.com/copydesk/backend/internal/config"
	"github.com/copydesk/backend/internal/middleware"
	"github.com/copydesk/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userRepo *repositories.UserRepo
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepo, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, cfg: cfg, log: log}
}

// Login handles the login form. Failures redirect back to /login with the
// message in the error query param; success sets the session cookie and
// redirects to the library.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if email == "" || password == "" {
		return redirectWithError(c, "/login", "Email and password are required.")
	}

	user, err := h.userRepo.GetByEmail(c.Context(), email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, password) {
		// Same message for unknown email and bad password.
		return redirectWithError(c, "/login", "Invalid email or password.")
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate session token", zap.Error(err))
		return redirectWithError(c, "/login", "Login failed, try again.")
	}

	middleware.SetSessionCookie(c, h.cfg, token)
	return c.Redirect("/library", fiber.StatusSeeOther)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c, h.cfg)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func redirectWithError(c *fiber.Ctx, path, message string) error {
	return c.Redirect(path+"?error="+url.QueryEscape(message), fiber.StatusSeeOther)
}
