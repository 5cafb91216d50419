package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, app *fiber.App, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	m := NewMiddleware("*")
	jwtService := jwt.NewJWTService("secret", time.Hour)
	app := fiber.New()
	app.Get("/", m.AuthMiddleware(jwtService), func(c *fiber.Ctx) error {
		return c.SendString("user:" + c.Locals("user_id").(string))
	})

	token, err := jwtService.GenerateTokenUser("42", domain.RoleUser)
	require.NoError(t, err)

	status, body := do(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user:42", body)

	status, _ = do(t, app, "Token "+token)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "Basic "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	m := NewMiddleware("*")
	jwtService := jwt.NewJWTService("secret", time.Hour)
	app := fiber.New()
	app.Get("/", m.OptionalAuthMiddleware(jwtService), func(c *fiber.Ctx) error {
		return c.SendString("user:" + c.Locals("user_id").(string))
	})

	status, body := do(t, app, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user:", body)

	token, err := jwtService.GenerateTokenUser("7", domain.RoleUser)
	require.NoError(t, err)
	_, body = do(t, app, "Token "+token)
	assert.Equal(t, "user:7", body)

	status, _ = do(t, app, "Token expired-or-forged")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestOnlyAllowRoles(t *testing.T) {
	m := NewMiddleware("*")
	jwtService := jwt.NewJWTService("secret", time.Hour)
	app := fiber.New()
	app.Get("/", m.AuthMiddleware(jwtService), m.OnlyAllowRoles(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	user, err := jwtService.GenerateTokenUser("1", domain.RoleUser)
	require.NoError(t, err)
	admin, err := jwtService.GenerateTokenUser("2", domain.RoleAdmin)
	require.NoError(t, err)

	status, _ := do(t, app, "Bearer "+user)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, "Bearer "+admin)
	assert.Equal(t, fiber.StatusNoContent, status)
}
