// Package app provides the main TUI application that wires all views together.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	bread "github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/tui"
	"github.com/berth-dev/bread/internal/tui/commands"
	"github.com/berth-dev/bread/internal/tui/views"
)

// App is the main TUI application that wires all views together.
type App struct {
	ctx   context.Context
	model *tui.Model

	// View models
	authView           views.AuthModel
	intakeView         views.IntakeModel
	recommendationView views.RecommendationModel
	chatView           views.ChatModel
	profileView        views.ProfileModel
	historyView        views.HistoryModel
}

// New creates a new App over a. The first screen follows the persisted
// state: auth, intake, therapist choice or chat.
func New(ctx context.Context, a *bread.App) *App {
	app := &App{ctx: ctx, model: tui.NewModel(a)}
	app.enter(app.model.State, nil)
	return app
}

// Init returns the initial command for the TUI.
func (a *App) Init() tea.Cmd {
	switch a.model.State {
	case tui.StateAuth:
		return a.authView.Init()
	case tui.StateIntake:
		return a.intakeView.Init()
	case tui.StateChat:
		return a.chatView.Init()
	}
	return nil
}

// enter switches to state and builds its view from the current snapshot.
func (a *App) enter(state tui.ViewState, result *intake.Result) tea.Cmd {
	a.model.State = state
	w, h := a.model.Width, a.model.Height
	st := a.model.App.Snapshot()

	switch state {
	case tui.StateAuth:
		a.authView = views.NewAuthModel(w, h)
		return a.authView.Init()
	case tui.StateIntake:
		a.intakeView = views.NewIntakeModel(a.model.App.Questions, w, h)
		return a.intakeView.Init()
	case tui.StateRecommendation:
		a.recommendationView = views.NewRecommendationModel(result, st.Recommended, st.Persona, w, h)
	case tui.StateChat:
		a.model.ActiveTab = tui.TabChat
		p, ok := persona.Lookup(st.Persona)
		if !ok {
			p = persona.MustLookup(persona.Default)
		}
		a.chatView = views.NewChatModel(p, st.Transcript, w, h)
		return a.chatView.Init()
	case tui.StateProfile:
		a.model.ActiveTab = tui.TabProfile
		a.profileView = views.NewProfileModel(st, w, h)
	case tui.StateHistory:
		a.model.ActiveTab = tui.TabHistory
		a.historyView = views.NewHistoryModel(st.Sessions, w, h)
	}
	return nil
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		// Only propagate to the currently active view
		var cmd tea.Cmd
		switch a.model.State {
		case tui.StateAuth:
			a.authView, cmd = a.authView.Update(msg)
		case tui.StateIntake:
			a.intakeView, cmd = a.intakeView.Update(msg)
		case tui.StateRecommendation:
			a.recommendationView, cmd = a.recommendationView.Update(msg)
		case tui.StateChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case tui.StateProfile:
			a.profileView, cmd = a.profileView.Update(msg)
		case tui.StateHistory:
			a.historyView, cmd = a.historyView.Update(msg)
		}
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, tui.DefaultKeyMap.CtrlC) {
			if a.model.CtrlCPending {
				// Second press within timeout - exit
				return a, tea.Quit
			}
			a.model.CtrlCPending = true
			return a, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		}
		a.model.Notice = ""

		if a.loggedInTabs() && !a.capturingKeys() {
			switch {
			case key.Matches(msg, tui.DefaultKeyMap.Tab):
				return a, a.cycleTab()
			case key.Matches(msg, tui.DefaultKeyMap.Logout):
				return a, commands.LogoutCmd(a.ctx, a.model.App)
			}
		}
		if a.model.State == tui.StateChat && key.Matches(msg, tui.DefaultKeyMap.SaveSession) {
			return a, commands.SaveSessionCmd(a.ctx, a.model.App)
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case tui.LogoutMsg:
		a.model.SetErr(msg.Err)
		if msg.Err == nil || bread.IsWarning(msg.Err) {
			return a, a.enter(tui.StateAuth, nil)
		}
		return a, nil

	case tui.SessionSavedMsg:
		a.model.SetErr(msg.Err)
		if !msg.Saved && msg.Err == nil {
			a.model.Notice = "Nothing to save yet"
		}
	}

	switch a.model.State {
	case tui.StateAuth:
		return a.updateAuth(msg)
	case tui.StateIntake:
		return a.updateIntake(msg)
	case tui.StateRecommendation:
		return a.updateRecommendation(msg)
	case tui.StateChat:
		return a.updateChat(msg)
	case tui.StateProfile:
		return a.updateProfile(msg)
	case tui.StateHistory:
		return a.updateHistory(msg)
	}
	return a, nil
}

// loggedInTabs reports whether the tab bar is active.
func (a *App) loggedInTabs() bool {
	switch a.model.State {
	case tui.StateChat, tui.StateProfile, tui.StateHistory:
		return true
	}
	return false
}

// capturingKeys reports whether the active view is collecting text, in
// which case Tab and the letter shortcuts belong to it.
func (a *App) capturingKeys() bool {
	switch a.model.State {
	case tui.StateProfile:
		return a.profileView.Editing()
	case tui.StateHistory:
		return a.historyView.Filtering()
	}
	return false
}

// ============================================================================
// State Update Handlers
// ============================================================================

func (a *App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.authView, cmd = a.authView.Update(msg)

	switch msg := msg.(type) {
	case tui.AuthSubmitMsg:
		return a, commands.AuthCmd(a.ctx, a.model.App, msg)

	case tui.AuthResultMsg:
		if msg.Err != nil && !bread.IsWarning(msg.Err) {
			// The auth view shows the error inline.
			return a, cmd
		}
		a.model.SetErr(msg.Err)
		return a, a.enter(tui.InitialState(a.model.App.Snapshot()), nil)
	}
	return a, cmd
}

func (a *App) updateIntake(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.intakeView, cmd = a.intakeView.Update(msg)

	switch msg := msg.(type) {
	case tui.IntakeSubmitMsg:
		return a, commands.CompleteIntakeCmd(a.ctx, a.model.App, msg)

	case tui.IntakeResultMsg:
		a.model.SetErr(msg.Err)
		if msg.Err != nil && !bread.IsWarning(msg.Err) {
			a.intakeView.Retry()
			return a, nil
		}
		res := msg.Result
		return a, a.enter(tui.StateRecommendation, &res)
	}
	return a, cmd
}

func (a *App) updateRecommendation(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.recommendationView, cmd = a.recommendationView.Update(msg)

	switch msg := msg.(type) {
	case tui.SelectPersonaMsg:
		return a, commands.SelectPersonaCmd(a.ctx, a.model.App, msg.ID)

	case tui.PersonaSelectedMsg:
		a.model.SetErr(msg.Err)
		if msg.Err != nil && !bread.IsWarning(msg.Err) {
			return a, nil
		}
		return a, a.enter(tui.StateChat, nil)
	}
	return a, cmd
}

func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)

	switch msg := msg.(type) {
	case tui.SendChatMsg:
		delay := time.Duration(a.model.App.Cfg.Chat.ReplyDelayMS) * time.Millisecond
		return a, tea.Batch(cmd, commands.SendChatCmd(a.ctx, a.model.App, msg.Content, delay))

	case tui.ChatResponseMsg:
		a.model.SetErr(msg.Err)

	case tui.ExitChatMsg:
		return a, a.enter(tui.StateRecommendation, nil)
	}
	return a, cmd
}

func (a *App) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.profileView, cmd = a.profileView.Update(msg)

	switch msg := msg.(type) {
	case tui.AddGoalMsg, tui.ToggleGoalMsg, tui.AddNoteMsg:
		return a, commands.ProfileCmd(a.ctx, a.model.App, msg)

	case tui.ProfileUpdatedMsg:
		a.model.SetErr(msg.Err)
		a.profileView.Refresh(a.model.App.Snapshot())
	}
	return a, cmd
}

func (a *App) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.historyView, cmd = a.historyView.Update(msg)
	return a, cmd
}

// cycleTab moves to the next tab, rebuilding its view from fresh state.
func (a *App) cycleTab() tea.Cmd {
	switch a.model.ActiveTab {
	case tui.TabChat:
		return a.enter(tui.StateProfile, nil)
	case tui.TabProfile:
		return a.enter(tui.StateHistory, nil)
	default:
		return a.enter(tui.StateChat, nil)
	}
}

// ============================================================================
// Rendering
// ============================================================================

// View renders the current application state.
func (a *App) View() string {
	var content string
	needsCentering := true

	switch a.model.State {
	case tui.StateAuth:
		content = a.authView.View()
	case tui.StateIntake:
		content = a.intakeView.View()
	case tui.StateRecommendation:
		content = a.recommendationView.View()
	case tui.StateChat:
		content = a.chatView.View()
		needsCentering = false
	case tui.StateProfile:
		content = a.profileView.View()
	case tui.StateHistory:
		content = a.historyView.View()
	default:
		content = "Unknown state"
	}

	if status := a.renderStatus(); status != "" {
		content = lipgloss.JoinVertical(lipgloss.Center, content, status)
	}

	if a.loggedInTabs() {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", a.renderTabBar())
	}

	if needsCentering {
		content = lipgloss.Place(a.model.Width, a.model.Height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// renderStatus shows the error, notice or Ctrl+C prompt, most urgent first.
func (a *App) renderStatus() string {
	switch {
	case a.model.CtrlCPending:
		return tui.WarningStyle.Render("Press Ctrl+C again to exit")
	case a.model.Err != nil:
		return tui.ErrorStyle.Render(a.model.Err.Error())
	case a.model.Notice != "":
		return tui.WarningStyle.Render(a.model.Notice)
	}
	return ""
}

// renderTabBar renders the tab bar with the active tab highlighted.
func (a *App) renderTabBar() string {
	tabs := []struct {
		tab  tui.Tab
		name string
	}{
		{tui.TabChat, "Chat"},
		{tui.TabProfile, "Goals & Notes"},
		{tui.TabHistory, "History"},
	}

	var rendered []string
	for _, t := range tabs {
		if t.tab == a.model.ActiveTab {
			rendered = append(rendered, tui.ActiveTabStyle.Render(t.name))
		} else {
			rendered = append(rendered, tui.InactiveTabStyle.Render(t.name))
		}
	}
	rendered = append(rendered, tui.DimStyle.Render("   Tab: Switch · Ctrl+L: Log out"))
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
