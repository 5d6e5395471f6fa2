package hook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Coxless/wtenv/internal/progress"
)

// Append writes ev as one line to <dir>/<session-id>.jsonl. The directory is
// created if needed and new files are readable only by the owner.
func Append(dir string, ev progress.Event) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create progress directory: %w", err)
	}

	line, err := progress.EncodeEvent(ev)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}
	line = append(line, '\n')

	path := filepath.Join(dir, ev.SessionID+progress.SessionFileExt)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return "", fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return path, nil
}
