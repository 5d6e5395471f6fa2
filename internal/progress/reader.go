package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Coxless/wtenv/internal/logger"
)

// SessionFileExt is the extension of every session log in the progress directory.
const SessionFileExt = ".jsonl"

// ReadStats summarises one pass over a session file.
type ReadStats struct {
	Valid   int
	Invalid int
}

// IsSessionFile reports whether name follows the <session-id>.jsonl convention.
func IsSessionFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, SessionFileExt) && len(base) > len(SessionFileExt)
}

// SessionIDFromPath derives the session identifier from a log file's name.
func SessionIDFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), SessionFileExt)
}

// ReadSessionFile reads and decodes every line of a session log. Lines that
// fail to decode are logged and skipped; only I/O failures are returned.
func ReadSessionFile(path string) ([]Event, ReadStats, error) {
	var stats ReadStats

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read session file %s: %w", path, err)
	}

	var events []Event
	for i, line := range strings.Split(string(data), "\n") {
		ev, ok, err := DecodeLine(line)
		if err != nil {
			stats.Invalid++
			logger.Logger.Warn().
				Str("file", path).
				Int("line", i+1).
				Err(err).
				Msg("⚠️  Skipping invalid progress line")
			continue
		}
		if !ok {
			continue
		}
		stats.Valid++
		events = append(events, ev)
	}

	if stats.Invalid > 0 {
		logger.Warnf("⚠️  Session file %s had %d parse errors (%d events loaded successfully)",
			path, stats.Invalid, stats.Valid)
	}

	return events, stats, nil
}
