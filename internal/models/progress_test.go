package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/progress"
)

func TestNewTaskSummary(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	task := &progress.Task{
		SessionID:   "abc",
		StartTime:   start,
		LastUpdate:  start.Add(90 * time.Second),
		Status:      progress.StatusInProgress,
		WorkingDir:  "/work/repo",
		LastMessage: "Edited file: main.go",
		Events: []progress.Event{
			{Timestamp: start, SessionID: "abc", Kind: progress.EventSessionStart, Message: "Session started", Cwd: "/work/repo"},
			{Timestamp: start.Add(90 * time.Second), SessionID: "abc", Kind: progress.EventPostToolUse, Tool: "Edit",
				Status: progress.StatusPtr(progress.StatusInProgress), Message: "Edited file: main.go", Cwd: "/work/repo"},
		},
	}

	s := NewTaskSummary(task, false)
	assert.Equal(t, "in_progress", s.Status)
	assert.Equal(t, "In Progress", s.StatusLabel)
	assert.Equal(t, "1m 30s", s.Duration)
	assert.Equal(t, 2, s.EventCount)
	assert.True(t, s.Active)
	assert.Equal(t, map[string]int{"Edit": 1}, s.ToolUsage)
	assert.Nil(t, s.Events)

	s = NewTaskSummary(task, true)
	require.Len(t, s.Events, 2)
	assert.Empty(t, s.Events[0].Status)
	assert.Equal(t, "in_progress", s.Events[1].Status)
	assert.Equal(t, "Edit", s.Events[1].Tool)
}

func TestNewStatusCountsResponse(t *testing.T) {
	resp := NewStatusCountsResponse(map[progress.Status]int{progress.StatusStop: 2}, 2, 2)
	assert.Equal(t, map[string]int{
		"in_progress":   0,
		"stop":          2,
		"session_ended": 0,
		"error":         0,
	}, resp.Counts)
	assert.Equal(t, 2, resp.Total)
}
