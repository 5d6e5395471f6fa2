package handlers

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerSamplesHealth(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(newRequestLogger(&buf, false))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/v1/tasks", func(c *fiber.Ctx) error { return c.SendString("[]") })

	for i := 0; i < healthSampleRate; i++ {
		_, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
	}
	_, err := app.Test(httptest.NewRequest("GET", "/v1/tasks", nil))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "/health")
	assert.Contains(t, lines[0], "[sampled: 10 calls]")
	assert.Contains(t, lines[1], "| 200 |")
	assert.Contains(t, lines[1], "/v1/tasks")
	assert.NotContains(t, buf.String(), cReset)
}
