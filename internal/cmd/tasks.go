package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/cache"
	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/tui/components"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "🔍 List Claude Code tasks",
	Long: `# 🔍 List Tasks

Prints the tasks found in the progress directory, most recently updated first.

Output is a table on a terminal and JSON when piped or with **--json**.`,
	Example: `  # Everything that is still running
  wtenv tasks --active

  # Tasks inside the current repository
  wtenv tasks --here

  # The newest task per directory, as JSON
  wtenv tasks --latest --json`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

var (
	tasksActive   bool
	tasksLatest   bool
	tasksHere     bool
	tasksLocation string
	tasksJSON     bool
)

func init() {
	tasksCmd.Flags().BoolVarP(&tasksActive, "active", "a", false, "Only tasks that have started and not ended")
	tasksCmd.Flags().BoolVarP(&tasksLatest, "latest", "l", false, "Only the newest task per working directory")
	tasksCmd.Flags().StringVar(&tasksLocation, "location", "", "Only tasks at or below this path")
	tasksCmd.Flags().BoolVar(&tasksHere, "here", false, "Only tasks in the current git repository")
	tasksCmd.Flags().BoolVar(&tasksJSON, "json", false, "Print JSON")
	tasksCmd.MarkFlagsMutuallyExclusive("location", "here")

	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	location, err := tasksFilterLocation()
	if err != nil {
		return err
	}

	m, err := loadManager()
	if err != nil {
		return err
	}
	tasks := selectTasks(m, location, tasksActive, tasksLatest)

	projects := cache.NewProjectCacheWithDefaults()
	out := cmd.OutOrStdout()
	if wantJSON(tasksJSON) {
		summaries := models.NewTaskSummaries(tasks)
		for i := range summaries {
			summaries[i].Project = projects.DisplayName(summaries[i].WorkingDir)
		}
		return writeJSON(out, summaries)
	}

	printTasks(out, tasks, projects, terminalWidth())
	return nil
}

func tasksFilterLocation() (string, error) {
	switch {
	case tasksHere:
		if runtimeCfg.CurrentRepo == "" {
			return "", fmt.Errorf("--here needs to run inside a git repository")
		}
		return runtimeCfg.CurrentRepo, nil
	case tasksLocation != "":
		abs, err := filepath.Abs(tasksLocation)
		if err != nil {
			return "", fmt.Errorf("invalid location %q: %w", tasksLocation, err)
		}
		return abs, nil
	}
	return "", nil
}

// selectTasks applies the query flags. An empty location means no location
// filter.
func selectTasks(m *progress.Manager, location string, activeOnly, latestOnly bool) []*progress.Task {
	var tasks []*progress.Task
	switch {
	case latestOnly:
		tasks = m.LatestTaskPerLocation()
	case activeOnly && location == "":
		return m.ActiveTasks()
	default:
		tasks = m.AllTasks()
	}

	filtered := tasks[:0]
	for _, t := range tasks {
		if location != "" && !progress.BelongsTo(t, location) {
			continue
		}
		if activeOnly && !t.IsActive() {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func printTasks(w io.Writer, tasks []*progress.Task, projects *cache.ProjectCache, width int) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, components.MutedStyle.Render("No Claude Code tasks found"))
		if _, err := os.Stat(settings.ProgressDir); os.IsNotExist(err) {
			fmt.Fprintln(w, components.MutedStyle.Render("Make sure hooks are installed with: wtenv install-hooks"))
		}
		return
	}
	renderTaskRows(w, tasks, projects, width)
}
