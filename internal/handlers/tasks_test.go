package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/services"
)

func seedProgress(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	write := func(session, cwd string, events ...progress.Event) {
		var data []byte
		for _, ev := range events {
			ev.SessionID = session
			ev.Cwd = cwd
			line, err := progress.EncodeEvent(ev)
			require.NoError(t, err)
			data = append(append(data, line...), '\n')
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, session+".jsonl"), data, 0600))
	}

	write("running", "/w/app",
		progress.Event{Timestamp: at, Kind: progress.EventUserPromptSubmit, Status: progress.StatusPtr(progress.StatusInProgress), Message: "Processing user prompt"},
		progress.Event{Timestamp: at.Add(time.Minute), Kind: progress.EventPostToolUse, Tool: "Edit", Status: progress.StatusPtr(progress.StatusInProgress), Message: "Edited file: main.go"},
	)
	write("finished", "/w/lib",
		progress.Event{Timestamp: at, Kind: progress.EventUserPromptSubmit, Status: progress.StatusPtr(progress.StatusInProgress), Message: "Processing user prompt"},
		progress.Event{Timestamp: at.Add(30 * time.Second), Kind: progress.EventSessionEnd, Status: progress.StatusPtr(progress.StatusSessionEnded), Message: "Session completed"},
	)
	return dir
}

func newTasksApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := services.NewProgressService(services.ProgressServiceConfig{Dir: seedProgress(t), RefreshInterval: time.Hour})
	require.NoError(t, svc.Start())
	t.Cleanup(svc.Stop)

	app := fiber.New()
	NewTasksHandler(svc).Register(app.Group("/v1"))
	return app
}

func getJSON(t *testing.T, app *fiber.App, method, path string, out interface{}) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestTasksHandler_ListTasks(t *testing.T) {
	app := newTasksApp(t)

	var tasks []models.TaskSummary
	assert.Equal(t, 200, getJSON(t, app, "GET", "/v1/tasks", &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "running", tasks[0].SessionID)
	assert.Equal(t, "Edited file: main.go", tasks[0].LastMessage)
	assert.Equal(t, map[string]int{"Edit": 1}, tasks[0].ToolUsage)
}

func TestTasksHandler_ListActiveTasks(t *testing.T) {
	app := newTasksApp(t)

	var tasks []models.TaskSummary
	assert.Equal(t, 200, getJSON(t, app, "GET", "/v1/tasks/active", &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "running", tasks[0].SessionID)
}

func TestTasksHandler_ListLatestTasks(t *testing.T) {
	app := newTasksApp(t)

	var tasks []models.TaskSummary
	assert.Equal(t, 200, getJSON(t, app, "GET", "/v1/tasks/latest", &tasks))
	assert.Len(t, tasks, 2)
}

func TestTasksHandler_ListTasksForLocation(t *testing.T) {
	app := newTasksApp(t)

	var tasks []models.TaskSummary
	assert.Equal(t, 200, getJSON(t, app, "GET", "/v1/tasks/location?path=/w/lib", &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "finished", tasks[0].SessionID)

	tasks = nil
	assert.Equal(t, 200, getJSON(t, app, "GET", "/v1/tasks/location?path=/elsewhere", &tasks))
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	var errResp map[string]string
	assert.Equal(t, 400, getJSON(t, app, "GET", "/v1/tasks/location", &errResp))
	assert.Equal(t, "path query parameter is required", errResp["error"])
}

func TestTasksHandler_GetTask(t *testing.T) {
	app := newTasksApp(t)

	var task models.TaskSummary
	assert.Equal(t, 200, getJSON(t, app, "GET", "/v1/tasks/finished", &task))
	assert.Equal(t, "session_ended", task.Status)
	assert.Equal(t, "30s", task.Duration)
	assert.Len(t, task.Events, 2)

	var errResp map[string]string
	assert.Equal(t, 404, getJSON(t, app, "GET", "/v1/tasks/missing", &errResp))
	assert.Equal(t, "Task not found", errResp["error"])
}

func TestTasksHandler_StatusAndReload(t *testing.T) {
	app := newTasksApp(t)

	var counts models.StatusCountsResponse
	assert.Equal(t, 200, getJSON(t, app, "GET", "/v1/status", &counts))
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 1, counts.Active)
	assert.Equal(t, 1, counts.Counts["in_progress"])

	counts = models.StatusCountsResponse{}
	assert.Equal(t, 200, getJSON(t, app, "POST", "/v1/tasks/reload", &counts))
	assert.Equal(t, 2, counts.Total)
}

func TestTasksHandler_StoppedService(t *testing.T) {
	svc := services.NewProgressService(services.ProgressServiceConfig{Dir: t.TempDir()})
	svc.Stop()

	app := fiber.New()
	NewTasksHandler(svc).Register(app.Group("/v1"))

	assert.Equal(t, 503, getJSON(t, app, "GET", "/v1/tasks", nil))
}
