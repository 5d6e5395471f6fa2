package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
