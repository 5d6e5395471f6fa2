package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/progress"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "🧹 Delete every session log in the progress directory",
	Long: `# 🧹 Clear Task Progress

Deletes every **<session-id>.jsonl** file in the progress directory. Other
files, such as the hook's errors.log, are left alone.

This cannot be undone. Without **--yes** you are asked to confirm.`,
	Example: `  wtenv clear
  wtenv clear --yes`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var clearYes bool

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	dir := settings.ProgressDir
	out := cmd.OutOrStdout()

	if !clearYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(out, "Not in interactive terminal, nothing cleared (use --yes to force)")
			return nil
		}
		if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete all session logs in %s? [y/N]: ", dir)) {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}

	removed, err := progress.ClearDir(dir)
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", dir, err)
	}
	logger.Debugf("🧹 Removed %d session logs from %s", removed, dir)
	fmt.Fprintf(out, "✅ Removed %d session logs\n", removed)
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return response == "y" || response == "yes"
}
