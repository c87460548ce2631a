package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/tui"
)

// CompleteIntakeCmd scores and stores a finished assessment.
func CompleteIntakeCmd(ctx context.Context, a *app.App, msg tui.IntakeSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		res, err := a.CompleteIntake(ctx, msg.Assessment)
		return tui.IntakeResultMsg{Result: res, Err: err}
	}
}

// SelectPersonaCmd switches the active therapist.
func SelectPersonaCmd(ctx context.Context, a *app.App, id persona.ID) tea.Cmd {
	return func() tea.Msg {
		return tui.PersonaSelectedMsg{ID: id, Err: a.SelectPersona(ctx, id)}
	}
}
