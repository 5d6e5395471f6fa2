package progress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSession(t, dir, "alpha", baseTime,
		line(t, ev("alpha", 0, EventSessionStart, nil, "Session started", "/w/alpha")),
		line(t, ev("alpha", time.Minute, EventUserPromptSubmit, StatusPtr(StatusInProgress), "Processing user prompt", "/w/alpha")),
	)
	writeSession(t, dir, "beta", baseTime,
		line(t, ev("beta", 0, EventUserPromptSubmit, StatusPtr(StatusInProgress), "Processing user prompt", "/w/beta")),
		line(t, ev("beta", 2*time.Minute, EventStop, StatusPtr(StatusStop), "Waiting for user response", "/w/beta")),
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "errors.log"), []byte("boom\n"), 0600))
	return dir
}

func TestManagerLoadAll(t *testing.T) {
	m := NewManager(seedDir(t))
	require.NoError(t, m.LoadAll())

	assert.Equal(t, 2, m.Len())
	alpha, ok := m.Task("alpha")
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, alpha.Status)

	beta, ok := m.Task("beta")
	require.True(t, ok)
	assert.Equal(t, StatusStop, beta.Status)
	assert.Equal(t, "Waiting for user response", beta.LastMessage)
}

func TestManagerLoadAllMissingDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, m.LoadAll())
	assert.Equal(t, 0, m.Len())

	result, err := m.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
}

func TestManagerLoadAllDirectoryIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	m := NewManager(path)
	assert.Error(t, m.LoadAll())
}

func TestManagerLoadAllResetsState(t *testing.T) {
	m := NewManager(seedDir(t))
	m.ApplyEvent(ev("stray", 0, EventStop, StatusPtr(StatusStop), "", "/w"))
	require.NoError(t, m.LoadAll())
	_, ok := m.Task("stray")
	assert.False(t, ok)
}

func TestManagerRefreshIsIdempotent(t *testing.T) {
	dir := seedDir(t)
	m := NewManager(dir)
	require.NoError(t, m.LoadAll())

	before := m.AllTasks()
	alphaPath := filepath.Join(dir, "alpha.jsonl")
	cached, ok := m.CachedModTime(alphaPath)
	require.True(t, ok)

	for i := 0; i < 2; i++ {
		result, err := m.Refresh()
		require.NoError(t, err)
		assert.Equal(t, 2, result.Scanned)
		assert.False(t, result.Changed())
	}

	after := m.AllTasks()
	assert.Equal(t, before, after)
	again, _ := m.CachedModTime(alphaPath)
	assert.True(t, cached.Equal(again))
}

func TestManagerRefreshRebuildsChangedSession(t *testing.T) {
	dir := seedDir(t)
	m := NewManager(dir)
	require.NoError(t, m.LoadAll())

	writeSession(t, dir, "alpha", baseTime.Add(time.Hour),
		line(t, ev("alpha", 0, EventSessionStart, nil, "Session started", "/w/alpha")),
		line(t, ev("alpha", time.Minute, EventUserPromptSubmit, StatusPtr(StatusInProgress), "Processing user prompt", "/w/alpha")),
		line(t, ev("alpha", 5*time.Minute, EventSessionEnd, StatusPtr(StatusSessionEnded), "Session completed", "/w/alpha")),
	)

	result, err := m.Refresh()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "alpha.jsonl")}, result.Reloaded)

	alpha, _ := m.Task("alpha")
	assert.Len(t, alpha.Events, 3, "task is rebuilt, not merged")
	assert.Equal(t, StatusSessionEnded, alpha.Status)
	assert.Equal(t, "5m 0s", alpha.DurationString())
}

func TestManagerRefreshPicksUpNewFiles(t *testing.T) {
	dir := seedDir(t)
	m := NewManager(dir)
	require.NoError(t, m.LoadAll())

	writeSession(t, dir, "gamma", baseTime,
		line(t, ev("gamma", 0, EventUserPromptSubmit, StatusPtr(StatusInProgress), "Processing user prompt", "/w/gamma")),
	)

	result, err := m.Refresh()
	require.NoError(t, err)
	assert.True(t, result.Changed())
	assert.Equal(t, 3, m.Len())
}

func TestManagerRefreshKeepsRemovedSessions(t *testing.T) {
	dir := seedDir(t)
	m := NewManager(dir)
	require.NoError(t, m.LoadAll())

	require.NoError(t, os.Remove(filepath.Join(dir, "beta.jsonl")))
	_, err := m.Refresh()
	require.NoError(t, err)

	_, ok := m.Task("beta")
	assert.True(t, ok)

	require.NoError(t, m.LoadAll())
	_, ok = m.Task("beta")
	assert.False(t, ok)
}

func TestManagerInvalidateRebuildsEquivalentState(t *testing.T) {
	m := NewManager(seedDir(t))
	require.NoError(t, m.LoadAll())
	before := m.AllTasks()

	m.Invalidate()
	result, err := m.Refresh()
	require.NoError(t, err)
	assert.Len(t, result.Reloaded, 2)
	assert.Equal(t, before, m.AllTasks())
}

func TestManagerTruncatedTrailingLine(t *testing.T) {
	captureLogs(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "s.jsonl")
	content := line(t, ev("s", 0, EventUserPromptSubmit, StatusPtr(StatusInProgress), "Processing user prompt", "/w")) +
		"\n" + `{"timestamp":"2025-06-01T09:01:00Z","session_id":"s","event":"Sto`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	m := NewManager(dir)
	require.NoError(t, m.LoadAll())
	task, ok := m.Task("s")
	require.True(t, ok)
	assert.Len(t, task.Events, 1)
	assert.Equal(t, StatusInProgress, task.Status)
}

func TestClearDir(t *testing.T) {
	dir := seedDir(t)
	removed, err := ClearDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = os.Stat(filepath.Join(dir, "errors.log"))
	assert.NoError(t, err)

	removed, err = ClearDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Zero(t, removed)
}
