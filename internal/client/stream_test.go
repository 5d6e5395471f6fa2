package client

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/handlers"
	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/services"
)

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{base: "127.0.0.1:6370", want: "ws://127.0.0.1:6370/v1/tasks/stream"},
		{base: "localhost:6370", want: "ws://localhost:6370/v1/tasks/stream"},
		{base: "http://devbox:7000/ignored?x=1", want: "ws://devbox:7000/v1/tasks/stream"},
		{base: "https://devbox", want: "wss://devbox/v1/tasks/stream"},
		{base: "ftp://devbox", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := StreamURL(tt.base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeSession(t *testing.T, dir, session, cwd string) {
	t.Helper()
	line, err := progress.EncodeEvent(progress.Event{
		Timestamp: time.Now().UTC(),
		SessionID: session,
		Kind:      progress.EventUserPromptSubmit,
		Status:    progress.StatusPtr(progress.StatusInProgress),
		Message:   "Processing user prompt",
		Cwd:       cwd,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, session+progress.SessionFileExt), append(line, '\n'), 0600))
}

func startStreamServer(t *testing.T, dir string) (*services.ProgressService, string) {
	t.Helper()
	svc := services.NewProgressService(services.ProgressServiceConfig{Dir: dir, RefreshInterval: time.Hour})
	require.NoError(t, svc.Start())
	t.Cleanup(svc.Stop)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	v1 := app.Group("/v1")
	handlers.NewStreamHandler(svc).Register(v1)
	handlers.NewTasksHandler(svc).Register(v1)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return svc, "http://" + ln.Addr().String()
}

func TestStreamClientReceivesUpdates(t *testing.T) {
	dir := t.TempDir()
	first := uuid.NewString()
	writeSession(t, dir, first, "/w/one")
	svc, base := startStreamServer(t, dir)

	messages := make(chan models.StreamMessage, 4)
	stream := NewStreamClient("")
	stream.SetTasksHandler(func(msg models.StreamMessage) { messages <- msg })
	require.NoError(t, stream.Connect(base))
	t.Cleanup(func() { _ = stream.Close() })

	select {
	case msg := <-messages:
		require.Len(t, msg.Tasks, 1)
		assert.Equal(t, first, msg.Tasks[0].SessionID)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	second := uuid.NewString()
	writeSession(t, dir, second, "/w/two")
	require.NoError(t, svc.Reload(t.Context()))

	select {
	case msg := <-messages:
		assert.Len(t, msg.Tasks, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no update after reload")
	}
}

func TestStreamClientDoneAfterServerStops(t *testing.T) {
	svc, base := startStreamServer(t, t.TempDir())

	stream := NewStreamClient("")
	received := make(chan struct{}, 1)
	stream.SetTasksHandler(func(models.StreamMessage) {
		select {
		case received <- struct{}{}:
		default:
		}
	})
	require.NoError(t, stream.Connect(base))
	t.Cleanup(func() { _ = stream.Close() })

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	svc.Stop()
	select {
	case <-stream.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not end after the service stopped")
	}
}
