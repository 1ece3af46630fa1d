package middleware

import (
	"strings"
	"time"

	"github.com/copydesk/backend/internal/auth"
	"github.com/copydesk/backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
)

// Path prefixes that require a session.
var protectedPrefixes = []string{"/library", "/generate", "/review", "/export", "/ws"}

const loginPath = "/login"
const landingPath = "/library"

// SessionGate resolves the identity from the session cookie (or bearer token)
// on every request, slides the cookie forward when it is past half-life, and
// applies the redirect policy:
//   - no identity + protected path -> 303 to /login (401 JSON for API callers)
//   - identity + exactly /login    -> 303 to /library
//   - otherwise pass through with the identity in request locals.
//
// The refreshed cookie is set before any decision, so redirects carry it too.
func SessionGate(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := resolveIdentity(c, cfg)
		if claims != nil {
			c.Locals(CtxUserID, claims.UserID)
			c.Locals(CtxUserEmail, claims.Email)

			if claims.NeedsRefresh() {
				token, err := auth.GenerateJWT(cfg.JWTSecret, claims.UserID, claims.Email, cfg.JWTExpiration)
				if err != nil {
					log.Warn("session refresh failed", zap.Error(err))
				} else {
					SetSessionCookie(c, cfg, token)
				}
			}
		}

		path := c.Path()
		if claims == nil && isProtected(path) {
			if wantsJSON(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized."})
			}
			return c.Redirect(loginPath, fiber.StatusSeeOther)
		}
		if claims != nil && path == loginPath {
			return c.Redirect(landingPath, fiber.StatusSeeOther)
		}

		return c.Next()
	}
}

// RequireUserJSON guards API routes outside the gated prefixes. It never
// redirects.
func RequireUserJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(CtxUserID).(uuid.UUID); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized."})
		}
		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

func SetSessionCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.JWTExpiration),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func ClearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// resolveIdentity checks the session cookie, then the Authorization header,
// then the token query parameter (websocket handshakes cannot set headers).
func resolveIdentity(c *fiber.Ctx, cfg *config.Config) *auth.Claims {
	for _, tokenStr := range []string{
		c.Cookies(cfg.SessionCookieName),
		strings.TrimPrefix(c.Get("Authorization"), "Bearer "),
		c.Query("token"),
	} {
		if tokenStr == "" || strings.Contains(tokenStr, " ") {
			continue
		}
		if claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr); err == nil {
			return claims
		}
	}
	return nil
}

func isProtected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get("Accept"), "application/json") ||
		strings.Contains(c.Get("Content-Type"), "application/json")
}
