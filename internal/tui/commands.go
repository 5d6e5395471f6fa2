package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Coxless/wtenv/internal/progress"
)

func refreshTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// waitForChange blocks until the watcher signals. A nil watcher never does.
func waitForChange(w *progress.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return progressChangedMsg{}
	}
}
