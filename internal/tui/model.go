// Package tui implements the `wtenv ui` dashboard.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Coxless/wtenv/internal/cache"
	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/tui/components"
)

// Options configures the dashboard.
type Options struct {
	Dir             string
	RefreshInterval time.Duration
	// Watcher, when set, triggers refreshes between ticks.
	Watcher  *progress.Watcher
	Projects *cache.ProjectCache
}

// Model is the dashboard state. The manager is only ever touched from
// Update, which Bubble Tea runs on a single goroutine.
type Model struct {
	manager  *progress.Manager
	projects *cache.ProjectCache
	watcher  *progress.Watcher
	interval time.Duration

	keys    components.KeyMap
	help    help.Model
	history viewport.Model

	tasks       []*progress.Task
	selected    int
	selectedID  string
	activeOnly  bool
	showHistory bool

	width       int
	height      int
	lastRefresh time.Time
	err         error
}

// NewModel loads the progress directory and builds the initial state.
func NewModel(opts Options) Model {
	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = time.Second
	}
	projects := opts.Projects
	if projects == nil {
		projects = cache.NewProjectCacheWithDefaults()
	}

	m := Model{
		manager:  progress.NewManager(opts.Dir),
		projects: projects,
		watcher:  opts.Watcher,
		interval: interval,
		keys:     components.DefaultKeyMap(),
		help:     help.New(),
		history:  viewport.New(80, 8),
	}

	if err := m.manager.LoadAll(); err != nil {
		logger.Warnf("⚠️  Failed to load Claude Code task progress: %v", err)
		m.err = err
	}
	m.lastRefresh = time.Now()
	m.rebuildList()
	return m
}

// Init starts the refresh ticker and, when available, the watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshTick(m.interval), waitForChange(m.watcher))
}

// Tasks returns the rows currently shown.
func (m Model) Tasks() []*progress.Task {
	return m.tasks
}

// Selected returns the highlighted task, if any.
func (m Model) Selected() (*progress.Task, bool) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil, false
	}
	return m.tasks[m.selected], true
}

// rebuildList recomputes the visible rows and keeps the selection on the
// same session when it is still listed, clamping otherwise.
func (m *Model) rebuildList() {
	latest := m.manager.LatestTaskPerLocation()
	if m.activeOnly {
		filtered := latest[:0]
		for _, t := range latest {
			if t.IsActive() {
				filtered = append(filtered, t)
			}
		}
		latest = filtered
	}
	m.tasks = latest

	if m.selectedID != "" {
		for i, t := range m.tasks {
			if t.SessionID == m.selectedID {
				m.selected = i
				m.syncHistory()
				return
			}
		}
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.selectedID = ""
	if t, ok := m.Selected(); ok {
		m.selectedID = t.SessionID
	}
	m.syncHistory()
}

func (m *Model) syncHistory() {
	t, ok := m.Selected()
	if !ok {
		m.history.SetContent("")
		return
	}
	m.history.SetContent(renderHistory(t))
}
