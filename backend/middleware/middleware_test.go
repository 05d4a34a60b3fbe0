package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath/backend/config"
	"learnpath/backend/utils"
)

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Use(LoggingMiddleware(utils.NopLogger()))
	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(Claims(c).UserID)
	})
	app.Get("/admin", AuthMiddleware(cfg), AdminMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.ErrTeapot
	})
	return app
}

func token(t *testing.T, cfg *config.Config, userID, email string, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(userID, email, cfg.JWTSecret, ttl)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	app := newApp(cfg)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "Bearer nope", fiber.StatusUnauthorized},
		{"expired", "Bearer " + token(t, cfg, "u1", "a@b.co", -time.Minute), fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + token(t, &config.Config{JWTSecret: "other"}, "u1", "a@b.co", time.Hour), fiber.StatusUnauthorized},
		{"valid", "Bearer " + token(t, cfg, "u1", "a@b.co", time.Hour), fiber.StatusOK},
		{"valid without prefix", token(t, cfg, "u1", "a@b.co", time.Hour), fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", AdminEmails: []string{"ops@example.com"}}
	app := newApp(cfg)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, cfg, "u1", "ops@example.com", time.Hour))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, cfg, "u2", "user@example.com", time.Hour))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLoggingMiddlewareKeepsErrorStatus(t *testing.T) {
	app := newApp(&config.Config{JWTSecret: "s3cret"})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
