package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/tui/components"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "📈 Summarise task statuses",
	Long: `# 📈 Task Status

Counts the tasks in the progress directory by status.`,
	Example: `  wtenv status
  wtenv status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	m, err := loadManager()
	if err != nil {
		return err
	}
	resp := models.NewStatusCountsResponse(m.StatusCounts(), m.Len(), len(m.ActiveTasks()))

	if wantJSON(statusJSON) {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	printStatus(cmd.OutOrStdout(), resp)
	return nil
}

func printStatus(w io.Writer, resp models.StatusCountsResponse) {
	fmt.Fprintln(w, components.SectionHeaderStyle.Render("Claude Code Tasks"))
	for _, st := range progress.AllStatuses {
		fmt.Fprintf(w, "%s %s %d\n",
			components.StatusGlyph(st),
			components.StatusStyle(st).Render(components.Fit(st.Label(), statusColumn)),
			resp.Counts[string(st)])
	}
	fmt.Fprintln(w, components.FooterStyle.Render(fmt.Sprintf("Active: %d | Total: %d", resp.Active, resp.Total)))
}
