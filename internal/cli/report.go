// report.go implements the "bread report" command for progress summaries.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/config"
	"github.com/berth-dev/bread/internal/log"
	breadreport "github.com/berth-dev/bread/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show your progress",
	Long: `Summarize saved sessions, goals and notes, and write the summary to
.bread/report.md.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	return withUser(cmd, func(a *app.App) error {
		events, err := a.Events.ReadAll()
		if err != nil {
			// Non-fatal: the report just loses its activity span.
			fmt.Fprintf(cmd.ErrOrStderr(), "%s reading event log: %v\n", yellow("Warning:"), err)
			events = nil
		}

		st := a.Snapshot()
		r := breadreport.Generate(st, log.ForUser(events, st.User.Username))
		if err := breadreport.WriteReport(config.Dir(a.Root), r); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), breadreport.FormatReport(r))
		return nil
	})
}
