package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/Coxless/wtenv/internal/cache"
	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/tui/components"
)

const (
	defaultTerminalWidth = 100
	projectColumn        = 28
	statusColumn         = 15
	durationColumn       = 9
)

// loadManager reads the whole progress directory once.
func loadManager() (*progress.Manager, error) {
	m := progress.NewManager(settings.ProgressDir)
	if err := m.LoadAll(); err != nil {
		return nil, fmt.Errorf("failed to load task progress: %w", err)
	}
	logger.Debugf("📊 Loaded %d tasks from %s", m.Len(), settings.ProgressDir)
	return m, nil
}

// wantJSON reports whether output should be machine-readable.
func wantJSON(forced bool) bool {
	return forced || !isatty.IsTerminal(os.Stdout.Fd())
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultTerminalWidth
}

// renderTaskRows prints one line per task in the dashboard's column layout.
func renderTaskRows(w io.Writer, tasks []*progress.Task, projects *cache.ProjectCache, width int) {
	for _, t := range tasks {
		row := fmt.Sprintf("%s %s %s %s",
			components.StatusGlyph(t.Status),
			components.ProjectStyle.Render(components.Fit(projects.DisplayName(t.WorkingDir), projectColumn)),
			components.StatusStyle(t.Status).Render(components.Fit(t.Status.Label(), statusColumn)),
			components.Fit(t.DurationString(), durationColumn),
		)
		if room := width - lipgloss.Width(row) - 1; room > 3 && t.LastMessage != "" {
			row += " " + components.MutedStyle.Render(components.Fit(t.LastMessage, room))
		}
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}
