package auth_test

import (
	"net/http/httptest"
	"testing"

	"datafusion/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: apiKey}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{"NoKeyConfigured", "", "", 200},
		{"ValidKey", "secret", "secret", 200},
		{"MissingKey", "secret", "", 401},
		{"WrongKey", "secret", "wrong", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(tt.configured)
			req := httptest.NewRequest("GET", "/", nil)
			if tt.provided != "" {
				req.Header.Set(auth.Header, tt.provided)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
