package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(keys ...string) *fiber.App {
	app := fiber.New()
	app.Get("/", APIKeyAuthMiddleware(keys...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	app := newProtectedApp("op-key-1", " ", "op-key-2")

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", fiber.StatusUnauthorized},
		{"header key", "X-API-Key", "op-key-1", fiber.StatusNoContent},
		{"bearer", "Authorization", "Bearer op-key-2", fiber.StatusNoContent},
		{"wrong key", "X-API-Key", "nope", fiber.StatusUnauthorized},
		{"blank configured key is not a wildcard", "X-API-Key", " ", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAPIKeyAuthMiddlewareWithoutKeys(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
