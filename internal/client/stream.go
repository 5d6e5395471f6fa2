// Package client talks to a running `wtenv serve`.
package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/recovery"
)

const streamPath = "/v1/tasks/stream"

// StreamClient receives task updates from the server's WebSocket stream.
type StreamClient struct {
	conn     *websocket.Conn
	token    string
	mu       sync.Mutex
	onTasks  func(models.StreamMessage)
	onError  func(error)
	done     chan struct{}
	doneOnce sync.Once
}

// NewStreamClient creates a client. token may be empty.
func NewStreamClient(token string) *StreamClient {
	return &StreamClient{
		token: token,
		done:  make(chan struct{}),
	}
}

// StreamURL turns an http(s) base URL or a bare host:port into the stream
// endpoint.
func StreamURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		u, err = url.Parse("http://" + base)
		if err != nil {
			return "", fmt.Errorf("invalid server address %q: %w", base, err)
		}
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = streamPath
	u.RawQuery = ""
	return u.String(), nil
}

// Connect dials the server and starts delivering messages to the handlers.
func (s *StreamClient) Connect(base string) error {
	target, err := StreamURL(base)
	if err != nil {
		return err
	}

	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn, _, err = websocket.DefaultDialer.Dial(target, header)
	if err != nil {
		return fmt.Errorf("failed to connect to task stream: %w", err)
	}

	conn := s.conn
	recovery.SafeGoWithCleanup("task-stream-client", func() { s.readLoop(conn) }, s.finish)
	return nil
}

func (s *StreamClient) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if s.onError != nil {
				s.onError(err)
			}
			return
		}

		var msg models.StreamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if s.onError != nil {
				s.onError(fmt.Errorf("invalid stream message: %w", err))
			}
			continue
		}
		if msg.Type == models.StreamMessageTasks && s.onTasks != nil {
			s.onTasks(msg)
		}
	}
}

func (s *StreamClient) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Close closes the connection; Wait returns once the read loop has ended.
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	s.finish()
	return nil
}

// SetTasksHandler must be called before Connect.
func (s *StreamClient) SetTasksHandler(handler func(models.StreamMessage)) {
	s.onTasks = handler
}

// SetErrorHandler must be called before Connect.
func (s *StreamClient) SetErrorHandler(handler func(error)) {
	s.onError = handler
}

// Done is closed when the stream ends.
func (s *StreamClient) Done() <-chan struct{} {
	return s.done
}
