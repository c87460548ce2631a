package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
	"github.com/berth-dev/bread/internal/tui"
)

// maxProfileWidth is the maximum width for the profile box.
const maxProfileWidth = 100

// maxNotesShown caps the notes listed under the goals.
const maxNotesShown = 5

type profileInput int

const (
	inputNone profileInput = iota
	inputGoal
	inputNote
)

// ProfileModel shows goals and progress notes and collects new ones.
type ProfileModel struct {
	st       state.AppState
	selected int
	mode     profileInput
	input    textinput.Model
	width    int
	height   int
}

// NewProfileModel creates a ProfileModel over a state snapshot.
func NewProfileModel(st state.AppState, width, height int) ProfileModel {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = maxProfileWidth - 12

	return ProfileModel{st: st, input: ti, width: width, height: height}
}

// Editing reports whether a text input has focus, so global keys
// should pass through.
func (m ProfileModel) Editing() bool {
	return m.mode != inputNone
}

// Refresh replaces the snapshot after goals or notes changed.
func (m *ProfileModel) Refresh(st state.AppState) {
	m.st = st
	if m.selected >= len(st.Goals) {
		m.selected = max(len(st.Goals)-1, 0)
	}
}

// Init returns the initial command for the profile view.
func (m ProfileModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the profile view.
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, tui.DefaultKeyMap.Down):
			if m.selected < len(m.st.Goals)-1 {
				m.selected++
			}
		case key.Matches(msg, tui.DefaultKeyMap.Toggle):
			if m.selected < len(m.st.Goals) {
				id := m.st.Goals[m.selected].ID
				return m, func() tea.Msg { return tui.ToggleGoalMsg{ID: id} }
			}
		case key.Matches(msg, tui.DefaultKeyMap.AddGoal):
			return m, m.startInput(inputGoal, "New goal...")
		case key.Matches(msg, tui.DefaultKeyMap.AddNote):
			return m, m.startInput(inputNote, "How are things going?")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.mode != inputNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ProfileModel) startInput(mode profileInput, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m ProfileModel) updateInput(msg tea.KeyMsg) (ProfileModel, tea.Cmd) {
	switch {
	case key.Matches(msg, tui.DefaultKeyMap.Escape):
		m.mode = inputNone
		m.input.Blur()
		return m, nil

	case key.Matches(msg, tui.DefaultKeyMap.Enter):
		text := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			if mode == inputGoal {
				return tui.AddGoalMsg{Text: text}
			}
			return tui.AddNoteMsg{Text: text}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the profile view.
func (m ProfileModel) View() string {
	var b strings.Builder

	if m.st.User != nil {
		b.WriteString(tui.TitleStyle.Render(m.st.User.Username))
	}
	if p, ok := persona.Lookup(m.st.Persona); ok {
		b.WriteString(tui.DimStyle.Render("  seeing " + p.Label()))
	}
	b.WriteString("\n\n")

	done := 0
	for _, g := range m.st.Goals {
		if g.Completed {
			done++
		}
	}
	b.WriteString(tui.TitleStyle.Render("Goals"))
	if len(m.st.Goals) > 0 {
		b.WriteString(fmt.Sprintf("  %s %d/%d",
			tui.ProgressBar(float64(done)/float64(len(m.st.Goals)), 20), done, len(m.st.Goals)))
	}
	b.WriteString("\n")
	if len(m.st.Goals) == 0 {
		b.WriteString(tui.DimStyle.Render("No goals yet. Press g to add one."))
		b.WriteString("\n")
	}
	for i, g := range m.st.Goals {
		icon := tui.GoalOpen
		if g.Completed {
			icon = tui.GoalDone
		}
		line := fmt.Sprintf("%s %s", icon, g.Text)
		if i == m.selected {
			b.WriteString(tui.SelectedStyle.Render("> " + line))
		} else {
			b.WriteString(tui.NormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.TitleStyle.Render("Progress notes"))
	b.WriteString("\n")
	if len(m.st.Notes) == 0 {
		b.WriteString(tui.DimStyle.Render("No notes yet. Press n to write one."))
		b.WriteString("\n")
	}
	shown := 0
	for i := len(m.st.Notes) - 1; i >= 0 && shown < maxNotesShown; i-- {
		n := m.st.Notes[i]
		b.WriteString(tui.DimStyle.Render(n.Date.Local().Format("Jan 02")))
		b.WriteString("  ")
		b.WriteString(n.Text)
		b.WriteString("\n")
		shown++
	}

	if m.mode != inputNone {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Enter: Save · Esc: Cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("↑/↓: Select · Space: Toggle · g: Add goal · n: Add note · Tab: Switch tabs"))
	}

	boxWidth := maxProfileWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}
