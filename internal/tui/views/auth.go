// Package views provides TUI view components for the Bread application.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/bread/internal/tui"
)

// maxAuthWidth is the maximum width for the login box.
const maxAuthWidth = 60

// ============================================================================
// AuthModel
// ============================================================================

// AuthModel is the login / signup screen.
type AuthModel struct {
	signup   bool
	username textinput.Model
	password textinput.Model
	focus    int // 0=username, 1=password
	busy     bool
	Err      error
	width    int
	height   int
}

// NewAuthModel creates the auth screen in login mode.
func NewAuthModel(width, height int) AuthModel {
	u := textinput.New()
	u.Placeholder = "username"
	u.CharLimit = 64
	u.Width = maxAuthWidth - 12
	u.Focus()

	p := textinput.New()
	p.Placeholder = "password"
	p.CharLimit = 128
	p.Width = maxAuthWidth - 12
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	return AuthModel{
		username: u,
		password: p,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the auth view.
func (m AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the auth view.
func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Tab):
			m.signup = !m.signup
			m.Err = nil
			return m, nil

		// Letters go to the inputs, so only arrow keys move focus.
		case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
			return m, m.setFocus(1 - m.focus)

		case key.Matches(msg, tui.DefaultKeyMap.Enter):
			if m.focus == 0 {
				return m, m.setFocus(1)
			}
			user := strings.TrimSpace(m.username.Value())
			pass := m.password.Value()
			if user == "" || pass == "" {
				return m, nil
			}
			m.busy = true
			m.Err = nil
			signup := m.signup
			return m, func() tea.Msg {
				return tui.AuthSubmitMsg{Signup: signup, Username: user, Password: pass}
			}
		}

	case tui.AuthResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.Err = msg.Err
			m.password.Reset()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *AuthModel) setFocus(i int) tea.Cmd {
	m.focus = i
	if i == 0 {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

// View renders the auth view.
func (m AuthModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("🍞 Bread Therapist Collective"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Find the therapist that rises to the occasion."))
	b.WriteString("\n\n")

	login, signup := tui.ActiveTabStyle, tui.InactiveTabStyle
	if m.signup {
		login, signup = signup, login
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, login.Render("Log in"), signup.Render("Sign up")))
	b.WriteString("\n\n")

	b.WriteString(m.username.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(tui.ErrorStyle.Render(m.Err.Error()))
		b.WriteString("\n\n")
	}

	footer := "Tab: Log in / Sign up · Enter: Continue · Ctrl+C: Exit"
	if m.busy {
		footer = "Checking..."
	}
	b.WriteString(tui.DimStyle.Render(footer))

	boxWidth := maxAuthWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}
