// Package cli defines Cobra command definitions for the bread CLI.
// This file contains the root command, version flag, and shared helpers.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/config"
	"github.com/berth-dev/bread/internal/tui"
	tuiapp "github.com/berth-dev/bread/internal/tui/app"
)

var (
	rootFlag string
	version  = "dev" // set via ldflags at build time
)

// Output colors. fatih/color drops them when stdout is not a terminal.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "bread",
	Short: "Bread Therapist Collective in your terminal",
	Long: `Bread matches you with a bread-themed therapist persona through a
short intake assessment, then lets you chat, track goals and keep
progress notes. Everything is stored locally in .bread/.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return tui.Run(tuiapp.New(cmd.Context(), a))
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, red("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Directory holding .bread/ (default: current directory)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(intakeCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(therapistsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(reportCmd)
}

// projectRoot returns --root or the working directory.
func projectRoot() (string, error) {
	if rootFlag != "" {
		return rootFlag, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return dir, nil
}

// openApp loads config and opens the data directory. Load-time
// persistence problems are printed as warnings, not returned.
func openApp(cmd *cobra.Command) (*app.App, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	a, err := app.Open(cmd.Context(), root, cfg)
	if err := warn(cmd.ErrOrStderr(), err); err != nil {
		return nil, err
	}
	return a, nil
}

// warn prints persistence warnings and swallows them. Any other error is
// returned unchanged.
func warn(w io.Writer, err error) error {
	if app.IsWarning(err) {
		fmt.Fprintf(w, "%s changes may not be saved: %v\n", yellow("Warning:"), err)
		return nil
	}
	return err
}

// withApp opens the app, runs fn and closes it.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// withUser is withApp for commands that need someone logged in.
func withUser(cmd *cobra.Command, fn func(a *app.App) error) error {
	return withApp(cmd, func(a *app.App) error {
		if _, err := a.RequireUser(); err != nil {
			return err
		}
		return fn(a)
	})
}
