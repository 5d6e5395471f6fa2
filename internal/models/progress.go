package models

import (
	"time"

	"github.com/Coxless/wtenv/internal/progress"
)

// TaskSummary is the JSON form of a task returned by the API and `--json` output
// @Description Aggregated state of one Claude Code session
type TaskSummary struct {
	SessionID   string         `json:"session_id"`
	Project     string         `json:"project,omitempty"`
	Status      string         `json:"status"`
	StatusLabel string         `json:"status_label"`
	StartTime   time.Time      `json:"start_time"`
	LastUpdate  time.Time      `json:"last_update"`
	Duration    string         `json:"duration"`
	WorkingDir  string         `json:"working_dir"`
	LastMessage string         `json:"last_message"`
	EventCount  int            `json:"event_count"`
	Active      bool           `json:"active"`
	ToolUsage   map[string]int `json:"tool_usage"`
	Events      []EventSummary `json:"events,omitempty"`
}

// EventSummary is one recorded hook event
type EventSummary struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Tool      string    `json:"tool,omitempty"`
	Status    string    `json:"status,omitempty"`
	Message   string    `json:"message"`
}

// StatusCountsResponse reports how many tasks are in each status
type StatusCountsResponse struct {
	Total  int            `json:"total"`
	Active int            `json:"active"`
	Counts map[string]int `json:"counts"`
}

// StreamMessageTasks is the type of every message on the task stream.
const StreamMessageTasks = "tasks"

// StreamMessage is pushed to task stream clients on connect and after every
// change
type StreamMessage struct {
	Type  string        `json:"type"`
	Tasks []TaskSummary `json:"tasks"`
}

// NewTaskSummary converts a task. Events are included only when withEvents is set.
func NewTaskSummary(t *progress.Task, withEvents bool) TaskSummary {
	s := TaskSummary{
		SessionID:   t.SessionID,
		Status:      string(t.Status),
		StatusLabel: t.Status.Label(),
		StartTime:   t.StartTime,
		LastUpdate:  t.LastUpdate,
		Duration:    t.DurationString(),
		WorkingDir:  t.WorkingDir,
		LastMessage: t.LastMessage,
		EventCount:  len(t.Events),
		Active:      t.IsActive(),
		ToolUsage:   t.ToolUsage(),
	}
	if withEvents {
		s.Events = make([]EventSummary, 0, len(t.Events))
		for _, ev := range t.Events {
			es := EventSummary{
				Timestamp: ev.Timestamp,
				Event:     string(ev.Kind),
				Tool:      ev.Tool,
				Message:   ev.Message,
			}
			if ev.Status != nil {
				es.Status = string(*ev.Status)
			}
			s.Events = append(s.Events, es)
		}
	}
	return s
}

// NewTaskSummaries converts a task list, preserving order.
func NewTaskSummaries(tasks []*progress.Task) []TaskSummary {
	out := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskSummary(t, false))
	}
	return out
}

// NewStatusCountsResponse fills in zero counts so every status is present.
func NewStatusCountsResponse(counts map[progress.Status]int, total, active int) StatusCountsResponse {
	resp := StatusCountsResponse{
		Total:  total,
		Active: active,
		Counts: make(map[string]int, len(progress.AllStatuses)),
	}
	for _, st := range progress.AllStatuses {
		resp.Counts[string(st)] = counts[st]
	}
	return resp
}
