// Package hook turns Claude Code hook payloads into progress log records.
package hook

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Coxless/wtenv/internal/progress"
)

// UnknownSession is used when a payload carries no session id.
const UnknownSession = "unknown"

const commandPreviewLen = 50

// Payload is the subset of the Claude Code hook input wtenv records.
type Payload struct {
	HookEventName string          `json:"hook_event_name"`
	SessionID     string          `json:"session_id"`
	CWD           string          `json:"cwd"`
	ToolName      string          `json:"tool_name"`
	ToolInput     json.RawMessage `json:"tool_input,omitempty"`
	ToolResult    json.RawMessage `json:"tool_result,omitempty"`
	Notification  string          `json:"message"`
}

// ParsePayload decodes raw hook input.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse hook payload: %w", err)
	}
	return &p, nil
}

type toolInput struct {
	FilePath string `json:"file_path"`
	Command  string `json:"command"`
}

func (p *Payload) input() toolInput {
	var in toolInput
	if len(p.ToolInput) > 0 {
		_ = json.Unmarshal(p.ToolInput, &in)
	}
	return in
}

// Status maps the payload onto a task status. nil means the event leaves the
// status untouched.
func (p *Payload) Status() *progress.Status {
	switch progress.EventKind(p.HookEventName) {
	case progress.EventSessionStart:
		return nil
	case progress.EventUserPromptSubmit:
		return progress.StatusPtr(progress.StatusInProgress)
	case progress.EventStop:
		return progress.StatusPtr(progress.StatusStop)
	case progress.EventSessionEnd:
		return progress.StatusPtr(progress.StatusSessionEnded)
	case progress.EventNotification:
		msg := strings.ToLower(p.Notification)
		if strings.Contains(msg, "permission") || strings.Contains(msg, "waiting") || strings.Contains(msg, "input") {
			return progress.StatusPtr(progress.StatusStop)
		}
		return nil
	case progress.EventPostToolUse:
		if p.toolFailed() {
			return progress.StatusPtr(progress.StatusError)
		}
		return progress.StatusPtr(progress.StatusInProgress)
	}
	return progress.StatusPtr(progress.StatusInProgress)
}

// toolFailed inspects tool_result: a Bash result object with a truthy
// "error", or any string result mentioning an error.
func (p *Payload) toolFailed() bool {
	if len(p.ToolResult) == 0 {
		return false
	}

	var text string
	if err := json.Unmarshal(p.ToolResult, &text); err == nil {
		return strings.Contains(strings.ToLower(text), "error")
	}

	if p.ToolName != "Bash" {
		return false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(p.ToolResult, &obj); err != nil {
		return false
	}
	return truthy(obj["error"])
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	}
	return true
}

// Describe returns the human readable message recorded for the event.
func (p *Payload) Describe() string {
	switch progress.EventKind(p.HookEventName) {
	case progress.EventSessionStart:
		return "Session started"
	case progress.EventUserPromptSubmit:
		return "Processing user prompt"
	case progress.EventSessionEnd:
		return "Session completed"
	case progress.EventStop:
		return "Waiting for user response"
	case progress.EventPostToolUse:
		in := p.input()
		switch p.ToolName {
		case "Write":
			return "Created file: " + baseName(in.FilePath)
		case "Edit":
			return "Edited file: " + baseName(in.FilePath)
		case "Bash":
			return "Executed: " + preview(in.Command, commandPreviewLen)
		case "Read":
			return "Read file: " + baseName(in.FilePath)
		}
		return "Used tool: " + p.ToolName
	}
	return progress.UnknownEventMessage
}

// Event builds the progress record for this payload at time now.
func (p *Payload) Event(now time.Time) progress.Event {
	return progress.Event{
		Timestamp: now.UTC(),
		SessionID: p.Session(),
		Kind:      progress.EventKind(p.HookEventName),
		Tool:      p.ToolName,
		Status:    p.Status(),
		Message:   p.Describe(),
		Cwd:       p.CWD,
	}
}

// Session returns the session id, or UnknownSession when it cannot name a
// file inside the progress directory.
func (p *Payload) Session() string {
	id := strings.TrimSpace(p.SessionID)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return UnknownSession
	}
	return id
}

func baseName(path string) string {
	if path == "" {
		return "unknown"
	}
	return filepath.Base(path)
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
