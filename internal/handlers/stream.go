package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/recovery"
)

// TaskFeed is a TaskSource that can announce changes.
type TaskFeed interface {
	LatestTasks(ctx context.Context) ([]models.TaskSummary, error)
	Subscribe() (<-chan struct{}, func())
	Done() <-chan struct{}
}

// StreamHandler pushes the latest task per location over a WebSocket.
type StreamHandler struct {
	feed TaskFeed
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(feed TaskFeed) *StreamHandler {
	return &StreamHandler{feed: feed}
}

// Register mounts the stream route. It must be registered before
// TasksHandler so /tasks/:id does not shadow it.
func (h *StreamHandler) Register(router fiber.Router) {
	router.Get("/tasks/stream", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and streams task updates
// @Summary Stream latest tasks
// @Description Sends the latest task per location on connect and whenever it changes
// @Tags tasks
// @Success 101 {string} string "Switching Protocols"
// @Router /v1/tasks/stream [get]
func (h *StreamHandler) HandleWebSocket(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(h.stream)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *StreamHandler) stream(conn *websocket.Conn) {
	updates, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()

	// The client never sends anything we use; reading detects disconnects.
	closed := make(chan struct{})
	recovery.SafeGoWithCleanup("task-stream-reader", func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}, func() { close(closed) })

	if err := h.send(conn); err != nil {
		logger.Debugf("🔌 Task stream closed: %v", err)
		return
	}
	for {
		select {
		case <-updates:
			if err := h.send(conn); err != nil {
				logger.Debugf("🔌 Task stream closed: %v", err)
				return
			}
		case <-closed:
			return
		case <-h.feed.Done():
			return
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	tasks, err := h.feed.LatestTasks(ctx)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []models.TaskSummary{}
	}
	return conn.WriteJSON(models.StreamMessage{Type: models.StreamMessageTasks, Tasks: tasks})
}
