package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/cache"
	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "📊 Open the Claude Code task dashboard",
	Long: `# 📊 Task Dashboard

Shows the latest Claude Code task for every working directory and keeps it
up to date while hooks write new events.

## ⌨️  Keys
- **j/k** or arrows to move (wraps around)
- **enter** to show the event history of the selected task
- **a** to show only active tasks
- **r** to refresh, **R** to reload every session log
- **q** or **esc** to quit

Logs go to the file configured as **log_file** since the dashboard owns the terminal.`,
	RunE: runUI,
}

var uiNoWatch bool

func init() {
	uiCmd.Flags().BoolVar(&uiNoWatch, "no-watch", false, "Only poll the progress directory, do not watch it")
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	level := logger.ParseLevel(settings.LogLevel)
	if debugLogs {
		level = logger.LevelDebug
	}
	closer, err := logger.ConfigureFile(level, settings.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := tui.Options{
		Dir:             settings.ProgressDir,
		RefreshInterval: settings.RefreshInterval,
		Projects:        cache.NewProjectCacheWithDefaults(),
	}

	if settings.Watch && !uiNoWatch {
		w, err := progress.NewWatcher(settings.ProgressDir, progress.DefaultWatchDebounce)
		if err != nil {
			logger.Warnf("⚠️  Could not watch %s, falling back to polling: %v", settings.ProgressDir, err)
		} else if w != nil {
			defer w.Close()
			opts.Watcher = w
		}
	}

	logger.Infof("📊 Starting dashboard for %s", settings.ProgressDir)
	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
