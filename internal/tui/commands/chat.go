package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/tui"
)

// SendChatCmd records the message and reply, then waits delay before
// delivering ChatResponseMsg so the reply reads like someone typing.
func SendChatCmd(ctx context.Context, a *app.App, content string, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		ex, err := a.SendMessage(ctx, content)
		if err == nil || app.IsWarning(err) {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}
		return tui.ChatResponseMsg{Exchange: ex, Err: err}
	}
}

// SaveSessionCmd archives the current transcript.
func SaveSessionCmd(ctx context.Context, a *app.App) tea.Cmd {
	return func() tea.Msg {
		rec, ok, err := a.SaveSession(ctx)
		return tui.SessionSavedMsg{Record: rec, Saved: ok, Err: err}
	}
}
