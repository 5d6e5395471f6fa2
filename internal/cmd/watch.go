package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/client"
	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/tui/components"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "📡 Follow task updates from a running wtenv serve",
	Long: `# 📡 Watch a Server

Connects to the task stream of a **wtenv serve** instance and prints the
latest task per directory every time it changes. Useful when the progress
logs live on another machine or container.`,
	Example: `  wtenv watch
  wtenv watch --server http://devbox:6370`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchServer string

func init() {
	watchCmd.Flags().StringVarP(&watchServer, "server", "s", "", "Server address (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	server := watchServer
	if server == "" {
		server = settings.Server.Addr()
	}
	token := settings.Server.Token
	if env := os.Getenv("WTENV_API_TOKEN"); env != "" {
		token = env
	}

	out := cmd.OutOrStdout()
	width := terminalWidth()
	stream := client.NewStreamClient(token)
	stream.SetTasksHandler(func(msg models.StreamMessage) {
		printSummaries(out, msg.Tasks, width)
	})
	stream.SetErrorHandler(func(err error) {
		logger.Debugf("📡 Task stream error: %v", err)
	})

	if err := stream.Connect(server); err != nil {
		return err
	}
	defer stream.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		return nil
	case <-stream.Done():
		return fmt.Errorf("task stream from %s closed", server)
	}
}

// printSummaries renders one stream update with the dashboard's columns.
func printSummaries(w io.Writer, tasks []models.TaskSummary, width int) {
	fmt.Fprintln(w, components.SectionHeaderStyle.Render(time.Now().Format("15:04:05")+" Claude Code Tasks"))
	if len(tasks) == 0 {
		fmt.Fprintln(w, components.MutedStyle.Render("No Claude Code tasks found"))
		return
	}
	active := 0
	for _, t := range tasks {
		status := progress.Status(t.Status)
		if t.Active {
			active++
		}
		project := t.Project
		if project == "" {
			project = t.WorkingDir
		}
		row := fmt.Sprintf("%s %s %s %s",
			components.StatusGlyph(status),
			components.ProjectStyle.Render(components.Fit(project, projectColumn)),
			components.StatusStyle(status).Render(components.Fit(t.StatusLabel, statusColumn)),
			components.Fit(t.Duration, durationColumn),
		)
		if room := width - lipgloss.Width(row) - 1; room > 3 && t.LastMessage != "" {
			row += " " + components.MutedStyle.Render(components.Fit(t.LastMessage, room))
		}
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
	fmt.Fprintln(w, components.FooterStyle.Render(fmt.Sprintf("Active: %d | Total: %d", active, len(tasks))))
}
