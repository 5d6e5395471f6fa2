package cmd

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/services"
)

func startTestService(t *testing.T) *services.ProgressService {
	t.Helper()
	svc := services.NewProgressService(services.ProgressServiceConfig{
		Dir:             t.TempDir(),
		RefreshInterval: time.Hour,
	})
	require.NoError(t, svc.Start())
	t.Cleanup(svc.Stop)
	return svc
}

func TestAPIAppRoutes(t *testing.T) {
	app := newAPIApp(startTestService(t), "")

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/status", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var counts models.StatusCountsResponse
	require.NoError(t, json.Unmarshal(body, &counts))
	assert.Zero(t, counts.Total)
	assert.Len(t, counts.Counts, 4)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/tasks/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/tasks/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, 426, resp.StatusCode, "plain GET on the stream asks for an upgrade")

	resp, err = app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAPIAppRequiresToken(t *testing.T) {
	app := newAPIApp(startTestService(t), "s3cret")

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/tasks", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req := httptest.NewRequest("GET", "/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
