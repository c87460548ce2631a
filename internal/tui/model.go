package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/state"
)

// ViewState represents the current state of the TUI.
type ViewState int

const (
	StateAuth ViewState = iota // Login or signup
	StateIntake
	StateRecommendation
	StateChat
	StateProfile
	StateHistory
)

// Tab represents the active tab in the TUI.
type Tab int

const (
	TabChat Tab = iota
	TabProfile
	TabHistory
)

// Model holds the state shared by every screen.
type Model struct {
	// State management
	State     ViewState
	ActiveTab Tab
	Err       error

	// Notice is a one-line status such as a save warning.
	Notice string

	App *app.App

	Spinner spinner.Model

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool // True when waiting for second Ctrl+C press
}

// NewModel creates a new Model over a and picks the first screen from
// the persisted state.
func NewModel(a *app.App) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor))

	return &Model{
		State:   InitialState(a.Snapshot()),
		App:     a,
		Spinner: sp,

		// Default dimensions (will be updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}

// InitialState returns the screen a returning user lands on.
func InitialState(st state.AppState) ViewState {
	switch {
	case st.User == nil:
		return StateAuth
	case !st.User.IntakeCompleted:
		return StateIntake
	case st.Persona == "":
		return StateRecommendation
	default:
		return StateChat
	}
}

// SetErr records err, downgrading persistence failures to a notice.
func (m *Model) SetErr(err error) {
	m.Err = nil
	if err == nil {
		return
	}
	if app.IsWarning(err) {
		m.Notice = "Warning: changes may not be saved"
		return
	}
	m.Err = err
}
