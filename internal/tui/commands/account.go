// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/state"
	"github.com/berth-dev/bread/internal/tui"
)

// AuthCmd logs in or signs up and returns AuthResultMsg.
func AuthCmd(ctx context.Context, a *app.App, msg tui.AuthSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		var (
			rec state.UserRecord
			err error
		)
		if msg.Signup {
			rec, err = a.Signup(ctx, msg.Username, msg.Password)
		} else {
			rec, err = a.Login(ctx, msg.Username, msg.Password)
		}
		return tui.AuthResultMsg{User: rec, Err: err}
	}
}

// LogoutCmd clears the session and returns LogoutMsg.
func LogoutCmd(ctx context.Context, a *app.App) tea.Cmd {
	return func() tea.Msg {
		_, err := a.Logout(ctx, false)
		return tui.LogoutMsg{Err: err}
	}
}
