// chat.go implements "bread chat" and the session subcommands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/cleanup"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a message to your therapist",
	Long: `Send a message to the selected therapist and print the reply.

Without a message, chat reads one message per line from standard input
until end of input or "/quit".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			p, ok := a.Persona()
			if !ok {
				return app.ErrNoPersona
			}
			if len(args) > 0 {
				return sendAndPrint(cmd, a, p, strings.Join(args, " "))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chatting with %s. Type /quit to stop.\n", bold(p.Label()))
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "you> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "/quit" {
					return nil
				}
				if err := sendAndPrint(cmd, a, p, line); err != nil {
					return err
				}
			}
		})
	},
}

func sendAndPrint(cmd *cobra.Command, a *app.App, p persona.Persona, text string) error {
	ex, err := a.SendMessage(cmd.Context(), text)
	if err := warn(cmd.ErrOrStderr(), err); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", cyan(p.Name), ex.Reply.Content)
	if ex.Archived != nil {
		fmt.Fprintln(out, gray(fmt.Sprintf("(session %s saved to history)", shortID(ex.Archived.ID))))
	}
	return nil
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Save, list or prune conversation history",
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Archive the current conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			rec, ok, err := a.SaveSession(cmd.Context())
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to save.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved session %s (%d messages).\n", shortID(rec.ID), rec.MessageCount)
			return nil
		})
	},
}

var showFlag string

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived conversations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			st := a.Snapshot()
			out := cmd.OutOrStdout()
			if len(st.Sessions) == 0 {
				fmt.Fprintln(out, "No saved sessions yet.")
				return nil
			}
			for i := len(st.Sessions) - 1; i >= 0; i-- {
				s := st.Sessions[i]
				if showFlag != "" && !strings.HasPrefix(s.ID, showFlag) {
					continue
				}
				fmt.Fprintf(out, "%s  %s  %-16s %d messages\n",
					shortID(s.ID), s.Date.Local().Format(time.DateTime), personaName(s.Persona), s.MessageCount)
				if showFlag != "" {
					printTranscript(out, s.Persona, s.Messages)
				}
			}
			return nil
		})
	},
}

var (
	keepFlag      int
	olderThanFlag int
	dryRunFlag    bool
)

var sessionPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old archived sessions",
	Long: `Remove archived sessions from history.

By default, removes sessions older than the configured history.max_age_days
(default 90). Use --keep to keep only the N most recent sessions instead.
Use --dry-run to preview what would be removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			policy := cleanup.Policy{MaxAgeDays: olderThanFlag, Keep: keepFlag}
			if policy.Empty() {
				policy.MaxAgeDays = a.Cfg.History.MaxAgeDays
			}
			if policy.Empty() {
				return fmt.Errorf("no retention rule: pass --keep or --older-than, or set history.max_age_days")
			}

			pruned, err := a.PruneSessions(cmd.Context(), policy, dryRunFlag)
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(pruned) == 0 {
				fmt.Fprintln(out, "No sessions to prune.")
				return nil
			}

			verb := "Removed"
			if dryRunFlag {
				verb = "Would remove"
			}
			for _, s := range pruned {
				fmt.Fprintf(out, "  %s %s  %s  %s\n", verb, shortID(s.ID), s.Date.Local().Format(time.DateOnly), personaName(s.Persona))
			}
			fmt.Fprintf(out, "%s %d session(s).\n", verb, len(pruned))
			return nil
		})
	},
}

func init() {
	sessionPruneCmd.Flags().IntVar(&keepFlag, "keep", 0, "Keep only the last N sessions")
	sessionPruneCmd.Flags().IntVar(&olderThanFlag, "older-than", 0, "Remove sessions older than this many days")
	sessionPruneCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Preview what would be removed without deleting")
	sessionCmd.AddCommand(sessionPruneCmd)
	sessionListCmd.Flags().StringVar(&showFlag, "show", "", "Print the transcript of the session with this id prefix")
	sessionCmd.AddCommand(sessionSaveCmd)
	sessionCmd.AddCommand(sessionListCmd)
}

func personaName(id persona.ID) string {
	if p, ok := persona.Lookup(id); ok {
		return p.Name
	}
	return string(id)
}

func printTranscript(out io.Writer, id persona.ID, msgs []state.ChatMessage) {
	for _, m := range msgs {
		who := "you"
		if m.Role != state.RoleUser {
			who = personaName(id)
		}
		fmt.Fprintf(out, "    %s: %s\n", who, m.Content)
	}
}
