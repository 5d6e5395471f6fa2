package progress

import (
	"fmt"
	"time"
)

// Task is the aggregated view of one session.
type Task struct {
	SessionID   string
	StartTime   time.Time
	LastUpdate  time.Time
	Status      Status
	Events      []Event
	WorkingDir  string
	LastMessage string
}

// newTask builds a task from the first event seen for a session. Sessions
// usually open with a status-less SessionStart, so the default is stop.
func newTask(ev Event) *Task {
	t := &Task{
		SessionID:  ev.SessionID,
		StartTime:  ev.Timestamp,
		LastUpdate: ev.Timestamp,
		Status:     StatusStop,
		WorkingDir: ev.Cwd,
	}
	if ev.Status != nil {
		t.Status = *ev.Status
	}
	if ev.HasMeaningfulMessage() {
		t.LastMessage = ev.Message
	}
	t.Events = append(t.Events, ev)
	return t
}

// apply merges a later event into the task. This is the only place an absent
// status is interpreted.
func (t *Task) apply(ev Event) {
	t.LastUpdate = ev.Timestamp
	t.WorkingDir = ev.Cwd
	if ev.Status != nil {
		t.Status = *ev.Status
	}
	if ev.HasMeaningfulMessage() {
		t.LastMessage = ev.Message
	}
	t.Events = append(t.Events, ev)
}

// HasStarted reports whether the session did anything beyond starting up.
func (t *Task) HasStarted() bool {
	if len(t.Events) > 1 {
		return true
	}
	return len(t.Events) == 1 && t.Events[0].Kind != EventSessionStart
}

// IsActive reports whether the task has started and its session has not
// ended.
func (t *Task) IsActive() bool {
	return t.Status != StatusSessionEnded && t.HasStarted()
}

// Duration is the time between the first and the latest event.
func (t *Task) Duration() time.Duration {
	return t.LastUpdate.Sub(t.StartTime)
}

// DurationString formats Duration as "42s", "3m 5s" or "2h 7m".
func (t *Task) DurationString() string {
	return FormatDuration(t.Duration())
}

// FormatDuration renders a duration at second granularity the way the
// dashboard shows elapsed task time.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}

// ToolUsage counts tool-use events by tool name.
func (t *Task) ToolUsage() map[string]int {
	usage := make(map[string]int)
	for _, ev := range t.Events {
		if ev.Tool != "" {
			usage[ev.Tool]++
		}
	}
	return usage
}

// Clone returns a copy that shares nothing mutable with the original.
func (t *Task) Clone() *Task {
	c := *t
	c.Events = make([]Event, len(t.Events))
	for i, ev := range t.Events {
		if ev.Status != nil {
			st := *ev.Status
			ev.Status = &st
		}
		c.Events[i] = ev
	}
	return &c
}
