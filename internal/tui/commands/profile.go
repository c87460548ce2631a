package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/tui"
)

// ProfileCmd applies a goal or note change and returns ProfileUpdatedMsg.
// Unknown messages produce nil.
func ProfileCmd(ctx context.Context, a *app.App, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch msg := msg.(type) {
		case tui.AddGoalMsg:
			_, err = a.AddGoal(ctx, msg.Text)
		case tui.ToggleGoalMsg:
			_, err = a.ToggleGoal(ctx, msg.ID)
		case tui.AddNoteMsg:
			_, err = a.AddNote(ctx, msg.Text)
		default:
			return nil
		}
		return tui.ProfileUpdatedMsg{Err: err}
	}
}
