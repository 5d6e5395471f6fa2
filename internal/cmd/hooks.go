package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/hook"
	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/progress"
)

const (
	hookCommandName = "hook"
	hookErrorLog    = "errors.log"
	sessionStartAck = "✓ Task progress tracking initialized for wtenv UI"
)

var installHooksCmd = &cobra.Command{
	Use:   "install-hooks",
	Short: "Install Claude Code hooks for task progress tracking",
	Long: `# 🔧 Install Claude Code Hooks

Register **wtenv hook** with Claude Code so every session writes its progress
log for the dashboard.

This command will:
- Create the Claude settings directory if it doesn't exist
- Back up the existing settings.json
- Add a hook for SessionStart, UserPromptSubmit, PostToolUse, Stop, SessionEnd and Notification

Existing hooks and settings are kept. Running it twice changes nothing.`,
	Example: `  # Install hooks for the current wtenv binary
  wtenv install-hooks

  # Install into a custom Claude config directory
  CLAUDE_CONFIG_DIR=~/work/.claude wtenv install-hooks`,
	RunE: runInstallHooks,
}

var hookCmd = &cobra.Command{
	Use:    hookCommandName,
	Short:  "Record a Claude Code hook event (internal use)",
	Hidden: true,
	Long: `# 🪝 Record Claude Code Hook Events

Reads one hook payload from stdin and appends it to
**<progress-dir>/<session-id>.jsonl**.

**Note:** This command is run by Claude Code. It always exits 0; failures
are written to errors.log in the progress directory.`,
	Example: `  echo '{"hook_event_name":"UserPromptSubmit","session_id":"abc","cwd":"/path/to/project"}' | wtenv hook`,
	RunE: runHook,
}

var verboseHooks bool

func init() {
	installHooksCmd.Flags().BoolVarP(&verboseHooks, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(installHooksCmd)
	rootCmd.AddCommand(hookCmd)
}

func runInstallHooks(cmd *cobra.Command, args []string) error {
	settingsPath := runtimeCfg.ClaudeSettingsPath()
	if verboseHooks {
		logger.Infof("📁 Using Claude settings file: %s", settingsPath)
	}

	wtenvPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get wtenv binary path: %w", err)
	}
	hookCommand := wtenvPath + " " + hookCommandName

	result, err := hook.Install(settingsPath, hookCommand)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Added) == 0 {
		fmt.Fprintln(out, "✅ Claude hooks are already installed")
	} else {
		fmt.Fprintln(out, "✅ Claude hooks installed successfully!")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "📝 Settings configured in: %s\n", result.SettingsPath)
	if result.BackupPath != "" {
		fmt.Fprintf(out, "💾 Previous settings saved to: %s\n", result.BackupPath)
	}
	fmt.Fprintf(out, "🪝 Hook command: %s\n", hookCommand)

	if verboseHooks {
		for _, ev := range result.Added {
			fmt.Fprintf(out, "   + %s\n", ev)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "📂 Progress logs will be written to: %s\n", settings.ProgressDir)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "🚀 Start the dashboard with: wtenv ui")
	return nil
}

func runHook(cmd *cobra.Command, args []string) error {
	// Claude Code must never see this command fail.
	closer, err := logger.ConfigureFile(logger.LevelWarn, filepath.Join(settings.ProgressDir, hookErrorLog))
	if err == nil {
		defer closer.Close()
	}

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		logger.Errorf("❌ Failed to read hook input: %v", err)
		return nil
	}
	if err := recordHook(input, settings.ProgressDir, time.Now(), cmd.OutOrStdout()); err != nil {
		logger.Errorf("❌ %v", err)
	}
	return nil
}

// recordHook appends the event described by input to its session log.
func recordHook(input []byte, dir string, now time.Time, out io.Writer) error {
	if len(input) == 0 {
		return nil
	}
	payload, err := hook.ParsePayload(input)
	if err != nil {
		return err
	}
	// The decoder rejects records without an event kind.
	if strings.TrimSpace(payload.HookEventName) == "" {
		logger.Warnf("⚠️  Ignoring hook payload without hook_event_name for session %s", payload.Session())
		return nil
	}

	path, err := hook.Append(dir, payload.Event(now))
	if err != nil {
		return fmt.Errorf("failed to record %s for session %s: %w", payload.HookEventName, payload.Session(), err)
	}
	logger.Debugf("🪝 Recorded %s in %s", payload.HookEventName, path)

	if progress.EventKind(payload.HookEventName) == progress.EventSessionStart {
		fmt.Fprintln(out, sessionStartAck)
	}
	return nil
}
