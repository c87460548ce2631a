// goals.go implements the goal and progress note commands.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/berth-dev/bread/internal/app"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage therapy goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			g, err := a.AddGoal(cmd.Context(), strings.Join(args, " "))
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal %s: %s\n", shortID(g.ID), g.Text)
			return nil
		})
	},
}

var goalToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a goal done, or not done again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			g, err := a.ToggleGoal(cmd.Context(), args[0])
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(g.Completed), g.Text)
			return nil
		})
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			goals := a.Snapshot().Goals
			out := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(out, "No goals yet. Add one: bread goal add <text>")
				return nil
			}
			done := 0
			for _, g := range goals {
				if g.Completed {
					done++
				}
				fmt.Fprintf(out, "%s  %s %s\n", shortID(g.ID), checkbox(g.Completed), g.Text)
			}
			fmt.Fprintf(out, "\n%d/%d completed\n", done, len(goals))
			return nil
		})
	},
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Keep progress notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a progress note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			n, err := a.AddNote(cmd.Context(), strings.Join(args, " "))
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Noted on %s.\n", n.Date.Local().Format(time.DateOnly))
			return nil
		})
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List progress notes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			notes := a.Snapshot().Notes
			out := cmd.OutOrStdout()
			if len(notes) == 0 {
				fmt.Fprintln(out, "No notes yet.")
				return nil
			}
			for i := len(notes) - 1; i >= 0; i-- {
				fmt.Fprintf(out, "%s  %s\n", notes[i].Date.Local().Format(time.DateOnly), notes[i].Text)
			}
			return nil
		})
	},
}

func init() {
	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalToggleCmd)
	goalCmd.AddCommand(goalListCmd)
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
}

func checkbox(done bool) string {
	if done {
		return green("[x]")
	}
	return "[ ]"
}
