// Package progress aggregates per-session Claude Code hook logs into task state.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// EventKind is the hook event name recorded on each line.
type EventKind string

const (
	EventSessionStart     EventKind = "SessionStart"
	EventUserPromptSubmit EventKind = "UserPromptSubmit"
	EventPostToolUse      EventKind = "PostToolUse"
	EventStop             EventKind = "Stop"
	EventSessionEnd       EventKind = "SessionEnd"
	EventNotification     EventKind = "Notification"
)

// Known reports whether the kind is one the hook writer emits.
func (k EventKind) Known() bool {
	switch k {
	case EventSessionStart, EventUserPromptSubmit, EventPostToolUse,
		EventStop, EventSessionEnd, EventNotification:
		return true
	}
	return false
}

// Status is the task state carried by an event.
type Status string

const (
	StatusInProgress   Status = "in_progress"
	StatusStop         Status = "stop"
	StatusSessionEnded Status = "session_ended"
	StatusError        Status = "error"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusInProgress, StatusStop, StatusSessionEnded, StatusError}

// ParseStatus converts the wire value into a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusInProgress, StatusStop, StatusSessionEnded, StatusError:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Label returns a human readable description of the status.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusStop:
		return "Waiting for User"
	case StatusSessionEnded:
		return "Session Ended"
	case StatusError:
		return "Error"
	}
	return "Unknown"
}

// StatusPtr is a convenience for building events with an explicit status.
func StatusPtr(s Status) *Status {
	return &s
}

// UnknownEventMessage is the placeholder the hook writes when it cannot
// describe an event. It never replaces a task's last message.
const UnknownEventMessage = "Unknown event"

// ErrInvalidLine is returned by DecodeLine for any line that is not a valid event.
var ErrInvalidLine = errors.New("invalid progress event line")

// Event is one decoded line of a session log.
type Event struct {
	Timestamp time.Time
	SessionID string
	Kind      EventKind
	// Tool is empty unless the event is a tool use.
	Tool string
	// Status is nil when the event does not change the task status.
	Status  *Status
	Message string
	Cwd     string
}

// HasMeaningfulMessage reports whether the message should become a task's
// last message.
func (e Event) HasMeaningfulMessage() bool {
	return e.Message != "" && e.Message != UnknownEventMessage
}

// wireEvent mirrors the JSON layout. Pointer fields let the decoder tell a
// missing field from an empty one.
type wireEvent struct {
	Timestamp *time.Time `json:"timestamp"`
	SessionID *string    `json:"session_id"`
	Event     *string    `json:"event"`
	Tool      *string    `json:"tool,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Message   *string    `json:"message"`
	Cwd       *string    `json:"cwd"`
}

// DecodeLine decodes one line of a session log. Blank lines return ok=false
// with a nil error. Any other failure wraps ErrInvalidLine.
func DecodeLine(line string) (Event, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Event{}, false, nil
	}

	var w wireEvent
	if err := json.Unmarshal([]byte(trimmed), &w); err != nil {
		return Event{}, false, fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}

	switch {
	case w.Timestamp == nil:
		return Event{}, false, fmt.Errorf("%w: missing timestamp", ErrInvalidLine)
	case w.SessionID == nil || *w.SessionID == "":
		return Event{}, false, fmt.Errorf("%w: missing session_id", ErrInvalidLine)
	case w.Event == nil || *w.Event == "":
		return Event{}, false, fmt.Errorf("%w: missing event", ErrInvalidLine)
	case w.Message == nil:
		return Event{}, false, fmt.Errorf("%w: missing message", ErrInvalidLine)
	case w.Cwd == nil:
		return Event{}, false, fmt.Errorf("%w: missing cwd", ErrInvalidLine)
	}

	ev := Event{
		Timestamp: w.Timestamp.UTC(),
		SessionID: *w.SessionID,
		Kind:      EventKind(*w.Event),
		Message:   *w.Message,
		Cwd:       *w.Cwd,
	}
	if w.Tool != nil {
		ev.Tool = *w.Tool
	}
	if w.Status != nil {
		st, err := ParseStatus(*w.Status)
		if err != nil {
			return Event{}, false, fmt.Errorf("%w: %v", ErrInvalidLine, err)
		}
		ev.Status = &st
	}
	return ev, true, nil
}

// EncodeEvent renders an event as a single JSON line without the trailing
// newline. Absent tool and status fields are omitted rather than written as null.
func EncodeEvent(ev Event) ([]byte, error) {
	ts := ev.Timestamp.UTC()
	kind := string(ev.Kind)
	w := wireEvent{
		Timestamp: &ts,
		SessionID: &ev.SessionID,
		Event:     &kind,
		Message:   &ev.Message,
		Cwd:       &ev.Cwd,
	}
	if ev.Tool != "" {
		w.Tool = &ev.Tool
	}
	if ev.Status != nil {
		st := string(*ev.Status)
		w.Status = &st
	}
	return json.Marshal(w)
}
