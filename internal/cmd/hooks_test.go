package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/progress"
)

func TestRecordHook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "task-progress")
	session := uuid.NewString()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	require.NoError(t, recordHook([]byte(`{"hook_event_name":"SessionStart","session_id":"`+session+`","cwd":"/w/a"}`), dir, now, &out))
	assert.Equal(t, sessionStartAck+"\n", out.String())

	out.Reset()
	require.NoError(t, recordHook([]byte(`{"hook_event_name":"PostToolUse","session_id":"`+session+`","cwd":"/w/a","tool_name":"Bash","tool_input":{"command":"go test ./..."}}`), dir, now.Add(time.Second), &out))
	assert.Empty(t, out.String())

	events, stats, err := progress.ReadSessionFile(filepath.Join(dir, session+progress.SessionFileExt))
	require.NoError(t, err)
	assert.Zero(t, stats.Invalid)
	require.Len(t, events, 2)
	assert.Equal(t, progress.EventSessionStart, events[0].Kind)
	assert.Nil(t, events[0].Status)
	assert.Equal(t, "Executed: go test ./...", events[1].Message)
	assert.Equal(t, progress.StatusInProgress, *events[1].Status)
}

func TestRecordHookIgnoresEmptyInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, recordHook(nil, dir, time.Now(), &bytes.Buffer{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordHookRejectsMalformedInput(t *testing.T) {
	err := recordHook([]byte(`{not json`), t.TempDir(), time.Now(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRecordHookWithoutSessionID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, recordHook([]byte(`{"hook_event_name":"Stop","cwd":"/w/a"}`), dir, time.Now(), &bytes.Buffer{}))
	assert.FileExists(t, filepath.Join(dir, "unknown"+progress.SessionFileExt))
}

func TestRecordHookSkipsPayloadWithoutEventName(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	require.NoError(t, recordHook([]byte(`{"session_id":"s","cwd":"/w/a"}`), dir, time.Now(), &out))
	assert.Empty(t, out.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
