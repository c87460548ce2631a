// account.go implements signup, login, logout and whoami.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/persona"
)

var (
	passwordFlag string
	archiveFlag  bool
)

var signupCmd = &cobra.Command{
	Use:   "signup <username>",
	Short: "Create an account on this device and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword(cmd, "Choose a password: ")
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			rec, err := a.Signup(cmd.Context(), args[0], pw)
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Next: bread intake\n", green("Welcome, "+rec.Username+"."))
			return nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword(cmd, "Password: ")
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			rec, err := a.Login(cmd.Context(), args[0], pw)
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, green("Welcome back, "+rec.Username+"."))
			if !rec.IntakeCompleted {
				fmt.Fprintln(out, "You have not finished the intake yet: bread intake")
			}
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out, optionally archiving the current conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			rec, err := a.Logout(cmd.Context(), archiveFlag)
			if err := warn(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rec != nil {
				fmt.Fprintf(out, "Saved session %s (%d messages).\n", shortID(rec.ID), rec.MessageCount)
			}
			fmt.Fprintln(out, "Logged out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user and current therapist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(a *app.App) error {
			st := a.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:        %s\n", st.User.Username)
			fmt.Fprintf(out, "Intake:      %s\n", yesNo(st.User.IntakeCompleted, "completed", "not completed"))
			if p, ok := persona.Lookup(st.Recommended); ok {
				fmt.Fprintf(out, "Recommended: %s\n", p.Label())
			}
			if p, ok := persona.Lookup(st.Persona); ok {
				fmt.Fprintf(out, "Therapist:   %s (%d messages in this session)\n", p.Label(), len(st.Transcript))
			}
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringVar(&passwordFlag, "password", "", "Password (prompted without echo when omitted)")
	}
	logoutCmd.Flags().BoolVar(&archiveFlag, "archive", false, "Save the current conversation to history first")
}

// readPassword returns --password, or prompts for it. A terminal gets a
// no-echo prompt; piped input is read one line at a time.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// shortID trims uuids for display. Commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
