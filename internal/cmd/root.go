package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/config"
	"github.com/Coxless/wtenv/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wtenv",
	Short: "🌲 wtenv - Claude Code task monitor",
	Long: `# 🌲 wtenv

**Watch what Claude Code is doing across all of your worktrees.**

Claude Code hooks append progress events to one log file per session.
wtenv folds those logs into tasks and shows them in a dashboard, on the
command line, or over a small JSON API.

## ✨ Features

- 📊 **Live dashboard** of the latest task in every working directory
- 🔍 **Task queries** by status or location
- 🪝 **Built-in hook** so no extra scripts are needed
- 🌐 **Read-only HTTP API** for editors and status bars

## 🚀 Getting Started

Run **wtenv install-hooks** once, then **wtenv ui** while Claude Code works.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	configPath  string
	progressDir string
	debugLogs   bool

	runtimeCfg *config.RuntimeConfig
	settings   *config.Settings
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.wtenv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&progressDir, "progress-dir", "", "Directory holding <session-id>.jsonl progress logs")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging")

	// Set custom help function to use Glow for beautiful markdown rendering
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderMarkdownHelp(cmd)
	})
}

// loadConfig resolves locations and settings before any subcommand runs.
// Flags win over the config file, which wins over the defaults.
func loadConfig(cmd *cobra.Command, args []string) error {
	runtimeCfg = config.DetectRuntime()

	path := configPath
	if path == "" {
		path = runtimeCfg.ConfigPath
	}
	s, err := config.LoadSettings(path, runtimeCfg)
	if err != nil {
		// The hook must keep working with a broken config file.
		if cmd.Name() == hookCommandName {
			s = config.DefaultSettings(runtimeCfg)
		} else {
			return err
		}
	}
	if progressDir != "" {
		s.ProgressDir = progressDir
	}
	settings = s

	level := logger.ParseLevel(settings.LogLevel)
	if debugLogs || logger.GetLogLevelFromEnv(false) == logger.LevelDebug {
		level = logger.LevelDebug
	}
	logger.Configure(level, isatty.IsTerminal(os.Stderr.Fd()))
	logger.Debugf("📁 Using progress directory %s", settings.ProgressDir)
	return nil
}

// renderMarkdownHelp renders command help using glamour for beautiful markdown display
func renderMarkdownHelp(cmd *cobra.Command) {
	var helpContent strings.Builder

	if cmd.Long != "" {
		helpContent.WriteString(cmd.Long)
		helpContent.WriteString("\n\n")
	} else if cmd.Short != "" {
		helpContent.WriteString("# " + cmd.Short)
		helpContent.WriteString("\n\n")
	}

	helpContent.WriteString("## 📖 Usage\n\n")
	helpContent.WriteString("```bash\n")
	helpContent.WriteString(cmd.UseLine())
	helpContent.WriteString("\n```\n\n")

	if cmd.Example != "" {
		helpContent.WriteString("## 💡 Examples\n\n")
		helpContent.WriteString("```bash\n")
		helpContent.WriteString(cmd.Example)
		helpContent.WriteString("\n```\n\n")
	}

	if cmd.HasAvailableSubCommands() {
		helpContent.WriteString("## 🔧 Available Commands\n\n")
		for _, subCmd := range cmd.Commands() {
			if subCmd.IsAvailableCommand() {
				helpContent.WriteString(fmt.Sprintf("- **%s** - %s\n", subCmd.Name(), subCmd.Short))
			}
		}
		helpContent.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() {
		helpContent.WriteString("## ⚙️  Flags\n\n")
		if flagUsages := cmd.LocalFlags().FlagUsages(); flagUsages != "" {
			helpContent.WriteString("```\n")
			helpContent.WriteString(flagUsages)
			helpContent.WriteString("```\n\n")
		}
	}

	if cmd.HasParent() && cmd.InheritedFlags().HasFlags() {
		helpContent.WriteString("## 🌐 Global Flags\n\n")
		if inheritedUsages := cmd.InheritedFlags().FlagUsages(); inheritedUsages != "" {
			helpContent.WriteString("```\n")
			helpContent.WriteString(inheritedUsages)
			helpContent.WriteString("```\n\n")
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		_ = cmd.Usage()
		return
	}

	rendered, err := renderer.Render(helpContent.String())
	if err != nil {
		_ = cmd.Usage()
		return
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
}
