package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/logger"
)

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// line renders one well-formed event line.
func line(t *testing.T, ev Event) string {
	t.Helper()
	data, err := EncodeEvent(ev)
	require.NoError(t, err)
	return string(data)
}

func ev(session string, offset time.Duration, kind EventKind, status *Status, msg, cwd string) Event {
	return Event{
		Timestamp: baseTime.Add(offset),
		SessionID: session,
		Kind:      kind,
		Status:    status,
		Message:   msg,
		Cwd:       cwd,
	}
}

// writeSession writes lines to <dir>/<session>.jsonl and stamps the file with
// mtime so tests do not depend on filesystem timestamp resolution.
func writeSession(t *testing.T, dir, session string, mtime time.Time, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, session+SessionFileExt)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

// captureLogs redirects the global logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}
