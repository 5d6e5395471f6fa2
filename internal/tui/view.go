package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/tui/components"
)

const (
	projectColumnWidth = 28
	statusColumnWidth  = 16
	sessionPrefixLen   = 12
	defaultWidth       = 80
)

// View renders the dashboard.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		m.renderHeader(width),
		m.renderTaskList(width),
		m.renderDetails(width),
	}
	if m.showHistory {
		sections = append(sections, m.renderHistoryPanel(width))
	}
	sections = append(sections, m.renderFooter(width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	title := "🌲 wtenv · Claude Code Monitor"
	refreshed := components.MutedStyle.Render("refreshed " + m.lastRefresh.Format("15:04:05"))
	header := title + "  " + refreshed
	if m.err != nil {
		header += "  " + components.ErrorStyle.Render("⚠ "+m.err.Error())
	}
	return components.ApplyWidth(components.HeaderStyle, width).Render(header)
}

func (m Model) renderTaskList(width int) string {
	title := "Claude Code Tasks (j/k to navigate)"
	if m.activeOnly {
		title = "Active Claude Code Tasks (j/k to navigate)"
	}

	var lines []string
	lines = append(lines, components.SectionHeaderStyle.Render(title))

	if len(m.tasks) == 0 {
		lines = append(lines, "", components.MutedStyle.Render("No Claude Code tasks found"),
			"", components.MutedStyle.Render("Make sure hooks are installed with: wtenv install-hooks"))
		return components.ApplyWidth(components.PanelStyle, width).Render(strings.Join(lines, "\n"))
	}

	for i, t := range m.tasks {
		row := fmt.Sprintf("%s %s %s %s",
			components.StatusGlyph(t.Status),
			components.ProjectStyle.Render(components.Fit(m.projects.DisplayName(t.WorkingDir), projectColumnWidth)),
			components.StatusStyle(t.Status).Render(components.Fit(t.Status.Label(), statusColumnWidth)),
			components.MutedStyle.Render(t.DurationString()),
		)
		if i == m.selected {
			row = components.SelectedRowStyle.Render(">> " + row)
		} else {
			row = "   " + row
		}
		lines = append(lines, row)
	}
	return components.ApplyWidth(components.PanelStyle, width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetails(width int) string {
	lines := []string{components.SectionHeaderStyle.Render("Task Details")}

	t, ok := m.Selected()
	if !ok {
		lines = append(lines, components.MutedStyle.Render("No task selected"))
		return components.ApplyWidth(components.PanelStyle, width).Render(strings.Join(lines, "\n"))
	}

	field := func(label, value string) string {
		return components.LabelStyle.Render(label+": ") + value
	}
	lines = append(lines,
		field("Project", m.projects.DisplayName(t.WorkingDir)),
		field("Session", truncate(t.SessionID, sessionPrefixLen)),
		field("Directory", t.WorkingDir),
		field("Status", components.StatusStyle(t.Status).Render(t.Status.Label())),
		field("Duration", t.DurationString()),
		field("Last activity", t.LastMessage),
	)
	if usage := formatToolUsage(t.ToolUsage()); usage != "" {
		lines = append(lines, field("Tools", usage))
	}
	return components.ApplyWidth(components.PanelStyle, width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHistoryPanel(width int) string {
	title := components.SectionHeaderStyle.Render("Event History (pgup/pgdown to scroll)")
	return components.ApplyWidth(components.PanelStyle, width).Render(title + "\n" + m.history.View())
}

func (m Model) renderFooter(width int) string {
	active := len(m.manager.ActiveTasks())
	total := len(m.manager.LatestTaskPerLocation())
	counts := fmt.Sprintf("Active: %d | Total: %d", active, total)
	return components.ApplyWidth(components.FooterStyle, width).Render(counts + "  " + m.help.View(m.keys))
}

// renderHistory lists a task's events oldest first.
func renderHistory(t *progress.Task) string {
	lines := make([]string, 0, len(t.Events))
	for _, ev := range t.Events {
		status := "-"
		if ev.Status != nil {
			status = string(*ev.Status)
		}
		lines = append(lines, fmt.Sprintf("%s  %-16s %-13s %s",
			ev.Timestamp.Local().Format("15:04:05"), ev.Kind, status, ev.Message))
	}
	return strings.Join(lines, "\n")
}

// formatToolUsage renders counts as "Bash×3, Edit×1", most used first.
func formatToolUsage(usage map[string]int) string {
	if len(usage) == 0 {
		return ""
	}
	tools := make([]string, 0, len(usage))
	for tool := range usage {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		if usage[tools[i]] != usage[tools[j]] {
			return usage[tools[i]] > usage[tools[j]]
		}
		return tools[i] < tools[j]
	})

	parts := make([]string, 0, len(tools))
	for _, tool := range tools {
		parts = append(parts, fmt.Sprintf("%s×%d", tool, usage[tool]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

