package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/copydesk/backend/internal/auth"
	"github.com/copydesk/backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newGateApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiration:     24 * time.Hour,
		SessionCookieName: "copydesk_session",
	}

	app := fiber.New()
	app.Use(SessionGate(cfg, zap.NewNop()))
	for _, path := range []string{"/login", "/health", "/library", "/review"} {
		app.Get(path, func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
	}
	return app, cfg
}

func sessionToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := auth.GenerateJWT(cfg.JWTSecret, uuid.New(), "user@example.com", cfg.JWTExpiration)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

func TestGateRedirectsAnonymousFromProtectedPath(t *testing.T) {
	app, _ := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}
}

func TestGateReturns401ForJSONCallers(t *testing.T) {
	app, _ := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/review", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGatePassesAnonymousOnPublicPaths(t *testing.T) {
	app, _ := newGateApp(t)

	for _, path := range []string{"/login", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test(%s): %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestGateRedirectsAuthenticatedFromLogin(t *testing.T) {
	app, cfg := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: sessionToken(t, cfg)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/library" {
		t.Errorf("location = %q, want /library", loc)
	}
}

func TestGateAcceptsSessionOnProtectedPath(t *testing.T) {
	app, cfg := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: sessionToken(t, cfg)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGateAcceptsBearerToken(t *testing.T) {
	app, cfg := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, cfg))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGateSlidesCookiePastHalfLife(t *testing.T) {
	app, cfg := newGateApp(t)

	// A token two thirds through its life. The gate should re-mint it.
	claims := auth.Claims{
		UserID: uuid.New(),
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "copydesk",
		},
	}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: stale})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var refreshed string
	for _, c := range resp.Cookies() {
		if c.Name == cfg.SessionCookieName {
			refreshed = c.Value
		}
	}
	if refreshed == "" {
		t.Fatal("expected a refreshed session cookie")
	}
	if refreshed == stale {
		t.Fatal("cookie was not re-minted")
	}

	parsed, err := auth.ParseJWT(cfg.JWTSecret, refreshed)
	if err != nil {
		t.Fatalf("ParseJWT(refreshed): %v", err)
	}
	if parsed.UserID != claims.UserID {
		t.Errorf("refreshed user id = %s, want %s", parsed.UserID, claims.UserID)
	}
	if parsed.NeedsRefresh() {
		t.Error("refreshed token should be fresh")
	}
}

func TestGateFreshCookieNotReMinted(t *testing.T) {
	app, cfg := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: sessionToken(t, cfg)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	for _, c := range resp.Cookies() {
		if c.Name == cfg.SessionCookieName {
			t.Errorf("fresh session should not set a new cookie, got %q", c.Value)
		}
	}
}

func TestGateIgnoresGarbageCookie(t *testing.T) {
	app, cfg := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: "not.a.jwt"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303 redirect to login", resp.StatusCode)
	}
}

func TestIsProtected(t *testing.T) {
	protected := []string{"/library", "/library/123/edit", "/generate", "/review", "/export/download.csv", "/ws"}
	public := []string{"/", "/login", "/logout", "/health", "/api/meta/options"}

	for _, p := range protected {
		if !isProtected(p) {
			t.Errorf("%s should be protected", p)
		}
	}
	for _, p := range public {
		if isProtected(p) {
			t.Errorf("%s should be public", p)
		}
	}
}

func TestWantsJSON(t *testing.T) {
	app := fiber.New()
	var got bool
	app.Get("/probe", func(c *fiber.Ctx) error {
		got = wantsJSON(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got {
		t.Error("browser Accept header should not want JSON")
	}

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if !got {
		t.Error("JSON content type should want JSON")
	}
}
