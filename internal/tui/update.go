package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/tui/components"
)

// Update is the dashboard's control loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyMessage(msg)
	case refreshTickMsg:
		m.refresh()
		return m, refreshTick(m.interval)
	case progressChangedMsg:
		m.refresh()
		return m, waitForChange(m.watcher)
	}
	return m, nil
}

func (m Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.history.Width = max(msg.Width-4, 20)
	m.history.Height = max(msg.Height/3, 4)
	return m, nil
}

func (m Model) handleKeyMessage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()

	case key.Matches(msg, m.keys.Reload):
		m.manager.Invalidate()
		m.projects.Invalidate()
		m.refresh()

	case key.Matches(msg, m.keys.ActiveOnly):
		m.activeOnly = !m.activeOnly
		m.rebuildList()

	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
		m.history.GotoTop()

	default:
		if m.showHistory {
			switch msg.String() {
			case components.KeyPageUp:
				m.history.PageUp()
			case components.KeyPageDown:
				m.history.PageDown()
			}
		}
	}
	return m, nil
}

// move changes the selection by delta, wrapping at both ends.
func (m *Model) move(delta int) {
	n := len(m.tasks)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
	m.selectedID = m.tasks[m.selected].SessionID
	m.syncHistory()
	m.history.GotoTop()
}

func (m *Model) refresh() {
	result, err := m.manager.Refresh()
	m.err = err
	if err != nil {
		logger.Warnf("⚠️  Failed to refresh Claude Code task progress: %v", err)
	}
	m.lastRefresh = time.Now()
	if result.Changed() || err != nil {
		logger.Debugf("🔄 Dashboard refresh reloaded %d sessions", len(result.Reloaded))
	}
	m.rebuildList()
}
