package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Coxless/wtenv/internal/logger"
)

// Manager owns the task map for one progress directory together with the
// modification times used to decide what needs re-reading. It is not safe for
// concurrent use; a single control loop is expected to own it.
type Manager struct {
	dir      string
	tasks    map[string]*Task
	modTimes map[string]time.Time
}

// RefreshResult reports what a Refresh pass did.
type RefreshResult struct {
	Scanned  int
	Reloaded []string
	Failed   []string
}

// Changed reports whether any session was rebuilt.
func (r RefreshResult) Changed() bool {
	return len(r.Reloaded) > 0
}

// NewManager creates an empty manager for the given progress directory.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:      dir,
		tasks:    make(map[string]*Task),
		modTimes: make(map[string]time.Time),
	}
}

// Dir returns the progress directory this manager reads.
func (m *Manager) Dir() string {
	return m.dir
}

// ApplyEvent merges one event into the task for its session, creating the
// task on first sight.
func (m *Manager) ApplyEvent(ev Event) {
	if t, ok := m.tasks[ev.SessionID]; ok {
		t.apply(ev)
		return
	}
	m.tasks[ev.SessionID] = newTask(ev)
}

// LoadAll discards any state and ingests every session file in the
// directory. A missing directory yields zero tasks.
func (m *Manager) LoadAll() error {
	m.tasks = make(map[string]*Task)
	m.modTimes = make(map[string]time.Time)

	files, err := m.sessionFiles()
	if err != nil {
		return err
	}

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warnf("⚠️  Failed to load %s: %v", path, err)
			continue
		}
		events, _, err := ReadSessionFile(path)
		if err != nil {
			logger.Warnf("⚠️  Failed to load %s: %v", path, err)
			continue
		}
		for _, ev := range events {
			m.ApplyEvent(ev)
		}
		m.modTimes[path] = info.ModTime()
	}

	logger.Debugf("📊 Loaded %d tasks from %d session files in %s", len(m.tasks), len(files), m.dir)
	return nil
}

// Refresh re-reads only the session files whose modification time changed
// since they were last ingested. A changed session's task is dropped and
// rebuilt from the whole file. Files that disappeared are left alone.
func (m *Manager) Refresh() (RefreshResult, error) {
	var result RefreshResult

	files, err := m.sessionFiles()
	if err != nil {
		return result, err
	}
	result.Scanned = len(files)

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warnf("⚠️  Failed to stat %s: %v", path, err)
			result.Failed = append(result.Failed, path)
			continue
		}

		if cached, ok := m.modTimes[path]; ok && cached.Equal(info.ModTime()) {
			continue
		}

		// Read before dropping so a transient failure keeps the old state.
		events, _, err := ReadSessionFile(path)
		if err != nil {
			logger.Warnf("⚠️  Failed to reload %s: %v", path, err)
			result.Failed = append(result.Failed, path)
			continue
		}

		delete(m.tasks, SessionIDFromPath(path))
		for _, ev := range events {
			m.ApplyEvent(ev)
		}
		m.modTimes[path] = info.ModTime()
		result.Reloaded = append(result.Reloaded, path)
	}

	if result.Changed() {
		logger.Debugf("🔄 Refreshed %d of %d session files", len(result.Reloaded), result.Scanned)
	}
	return result, nil
}

// Invalidate forgets all cached modification times so the next Refresh
// rebuilds every session file.
func (m *Manager) Invalidate() {
	m.modTimes = make(map[string]time.Time)
}

// CachedModTime returns the modification time recorded for path.
func (m *Manager) CachedModTime(path string) (time.Time, bool) {
	t, ok := m.modTimes[path]
	return t, ok
}

// sessionFiles lists the session logs in the directory in name order.
func (m *Manager) sessionFiles() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read progress directory %s: %w", m.dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSessionFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(m.dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ClearDir removes every session file from dir. It is the explicit clear
// operation; managers reading dir should be reloaded afterwards.
func ClearDir(dir string) (int, error) {
	m := NewManager(dir)
	files, err := m.sessionFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}
