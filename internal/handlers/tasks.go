package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/services"
)

const requestTimeout = 5 * time.Second

// TaskSource answers task queries. *services.ProgressService implements it.
type TaskSource interface {
	AllTasks(ctx context.Context) ([]models.TaskSummary, error)
	ActiveTasks(ctx context.Context) ([]models.TaskSummary, error)
	LatestTasks(ctx context.Context) ([]models.TaskSummary, error)
	TasksForLocation(ctx context.Context, location string) ([]models.TaskSummary, error)
	Task(ctx context.Context, sessionID string) (*models.TaskSummary, error)
	StatusCounts(ctx context.Context) (models.StatusCountsResponse, error)
	Reload(ctx context.Context) error
}

// TasksHandler serves the task progress API
type TasksHandler struct {
	source TaskSource
}

// NewTasksHandler creates a new tasks handler
func NewTasksHandler(source TaskSource) *TasksHandler {
	return &TasksHandler{source: source}
}

// Register mounts the task routes on router.
func (h *TasksHandler) Register(router fiber.Router) {
	router.Get("/tasks", h.ListTasks)
	router.Get("/tasks/active", h.ListActiveTasks)
	router.Get("/tasks/latest", h.ListLatestTasks)
	router.Get("/tasks/location", h.ListTasksForLocation)
	router.Post("/tasks/reload", h.ReloadTasks)
	router.Get("/tasks/:id", h.GetTask)
	router.Get("/status", h.GetStatus)
}

// ListTasks returns every known task
// @Summary List tasks
// @Description Returns all tasks, most recently updated first
// @Tags tasks
// @Produce json
// @Success 200 {array} models.TaskSummary
// @Router /v1/tasks [get]
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	return h.list(c, h.source.AllTasks)
}

// ListActiveTasks returns tasks that have started and not ended
// @Summary List active tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} models.TaskSummary
// @Router /v1/tasks/active [get]
func (h *TasksHandler) ListActiveTasks(c *fiber.Ctx) error {
	return h.list(c, h.source.ActiveTasks)
}

// ListLatestTasks returns the most recent task per working directory
// @Summary List latest task per location
// @Tags tasks
// @Produce json
// @Success 200 {array} models.TaskSummary
// @Router /v1/tasks/latest [get]
func (h *TasksHandler) ListLatestTasks(c *fiber.Ctx) error {
	return h.list(c, h.source.LatestTasks)
}

// ListTasksForLocation returns the tasks running in a directory or below it
// @Summary List tasks for a location
// @Tags tasks
// @Produce json
// @Param path query string true "Directory"
// @Success 200 {array} models.TaskSummary
// @Failure 400 {object} map[string]string "Missing path"
// @Router /v1/tasks/location [get]
func (h *TasksHandler) ListTasksForLocation(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "path query parameter is required",
		})
	}
	return h.list(c, func(ctx context.Context) ([]models.TaskSummary, error) {
		return h.source.TasksForLocation(ctx, path)
	})
}

// GetTask returns one task with its event history
// @Summary Get task
// @Tags tasks
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.TaskSummary
// @Failure 404 {object} map[string]string "Task not found"
// @Router /v1/tasks/{id} [get]
func (h *TasksHandler) GetTask(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	task, err := h.source.Task(ctx, c.Params("id"))
	if err != nil {
		return sourceError(c, err)
	}
	if task == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	return c.JSON(task)
}

// GetStatus returns task counts by status
// @Summary Task status counts
// @Tags tasks
// @Produce json
// @Success 200 {object} models.StatusCountsResponse
// @Router /v1/status [get]
func (h *TasksHandler) GetStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	counts, err := h.source.StatusCounts(ctx)
	if err != nil {
		return sourceError(c, err)
	}
	return c.JSON(counts)
}

// ReloadTasks rebuilds every task from disk
// @Summary Force reload
// @Tags tasks
// @Produce json
// @Success 200 {object} models.StatusCountsResponse
// @Router /v1/tasks/reload [post]
func (h *TasksHandler) ReloadTasks(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	if err := h.source.Reload(ctx); err != nil {
		return sourceError(c, err)
	}
	return h.GetStatus(c)
}

func (h *TasksHandler) list(c *fiber.Ctx, query func(context.Context) ([]models.TaskSummary, error)) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	tasks, err := query(ctx)
	if err != nil {
		return sourceError(c, err)
	}
	if tasks == nil {
		tasks = []models.TaskSummary{}
	}
	return c.JSON(tasks)
}

func sourceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrServiceStopped) || errors.Is(err, context.DeadlineExceeded) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	logger.Errorf("❌ Task query failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
