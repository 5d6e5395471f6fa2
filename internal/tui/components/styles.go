package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Coxless/wtenv/internal/progress"
)

// Color scheme
const (
	ColorPrimary   = "6"  // Cyan
	ColorSecondary = "8"  // Gray
	ColorSuccess   = "2"  // Green
	ColorWarning   = "3"  // Yellow
	ColorError     = "1"  // Red
	ColorInfo      = "4"  // Blue
	ColorText      = "15" // White
	ColorMuted     = "8"  // Dark gray
	ColorAccent    = "11" // Bright yellow
	ColorBorder    = "8"  // Border color
	ColorSelected  = "236"
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimary)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	SectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorSuccess))
)

// Text styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimary))

	ProjectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimary))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorError))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	SelectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Background(lipgloss.Color(ColorSelected))
)

// Container styles
var (
	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			Padding(0, 1)
)

// StatusColor maps a task status onto the palette.
func StatusColor(s progress.Status) lipgloss.Color {
	switch s {
	case progress.StatusInProgress:
		return lipgloss.Color(ColorInfo)
	case progress.StatusStop:
		return lipgloss.Color(ColorWarning)
	case progress.StatusError:
		return lipgloss.Color(ColorError)
	}
	return lipgloss.Color(ColorSecondary)
}

// StatusStyle renders text in the status color.
func StatusStyle(s progress.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(s))
}

// StatusGlyph is the marker shown in front of each task row.
func StatusGlyph(s progress.Status) string {
	switch s {
	case progress.StatusInProgress:
		return "🔵"
	case progress.StatusStop:
		return "🟡"
	case progress.StatusSessionEnded:
		return "🟢"
	case progress.StatusError:
		return "🔴"
	}
	return "⚪"
}

// ApplyWidth applies width to a style and returns a new style
func ApplyWidth(style lipgloss.Style, width int) lipgloss.Style {
	return style.Width(width - 2)
}

// Fit truncates s with an ellipsis or right-pads it to exactly n cells.
func Fit(s string, n int) string {
	if lipgloss.Width(s) > n {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}
	if w := lipgloss.Width(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}
