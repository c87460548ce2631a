package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/tui"
)

// ============================================================================
// IntakeModel
// ============================================================================

// maxIntakeWidth is the maximum width for the intake box.
const maxIntakeWidth = 90

// IntakeModel walks the user through the assessment one question at a time.
type IntakeModel struct {
	assessment *intake.Assessment
	selected   int
	freeText   textinput.Model
	submitted  bool
	width      int
	height     int
}

// NewIntakeModel starts an assessment over questions.
func NewIntakeModel(questions []intake.Question, width, height int) IntakeModel {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = maxIntakeWidth - 12

	m := IntakeModel{
		assessment: intake.NewAssessment(questions),
		freeText:   ti,
		width:      width,
		height:     height,
	}
	m.syncQuestion()
	return m
}

// Init returns the initial command for the intake view.
func (m IntakeModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the intake view.
func (m IntakeModel) Update(msg tea.Msg) (IntakeModel, tea.Cmd) {
	var cmd tea.Cmd
	q := m.assessment.Current()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}

		if key.Matches(msg, tui.DefaultKeyMap.Escape) || (q.Kind == intake.KindChoice && key.Matches(msg, tui.DefaultKeyMap.Back)) {
			if m.assessment.Previous() {
				m.syncQuestion()
			}
			return m, nil
		}

		if q.Kind == intake.KindFreeText {
			if key.Matches(msg, tui.DefaultKeyMap.Enter) {
				if text := strings.TrimSpace(m.freeText.Value()); text != "" {
					m.assessment.Answer(q.ID, intake.FreeText(text))
				}
				return m.advance()
			}
			m.freeText, cmd = m.freeText.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, tui.DefaultKeyMap.Down):
			if m.selected < len(q.Options)-1 {
				m.selected++
			}
		case key.Matches(msg, tui.DefaultKeyMap.Enter), msg.String() == " ":
			m.assessment.Answer(q.ID, intake.Choice(m.selected))
			return m.advance()
		default:
			// Quick navigate by number (user must press Enter to confirm)
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				if idx := int(s[0] - '1'); idx < len(q.Options) {
					m.selected = idx
				}
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if q.Kind == intake.KindFreeText {
		m.freeText, cmd = m.freeText.Update(msg)
	}
	return m, cmd
}

// advance moves to the next question or submits the assessment.
func (m IntakeModel) advance() (IntakeModel, tea.Cmd) {
	if m.assessment.Next() {
		return m, m.syncQuestion()
	}
	m.submitted = true
	as := m.assessment
	return m, func() tea.Msg {
		return tui.IntakeSubmitMsg{Assessment: as}
	}
}

// syncQuestion restores the cursor or text for the current question.
func (m *IntakeModel) syncQuestion() tea.Cmd {
	q := m.assessment.Current()
	ans, answered := m.assessment.Responses()[q.ID]

	if q.Kind == intake.KindFreeText {
		m.freeText.Placeholder = q.Placeholder
		m.freeText.SetValue(ans.Text)
		return m.freeText.Focus()
	}
	m.freeText.Blur()
	m.selected = 0
	if answered && ans.Option >= 0 && ans.Option < len(q.Options) {
		m.selected = ans.Option
	}
	return nil
}

// Retry re-enables input after a failed submission.
func (m *IntakeModel) Retry() {
	m.submitted = false
}

// View renders the intake view.
func (m IntakeModel) View() string {
	var b strings.Builder
	q := m.assessment.Current()

	questionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E5E7EB")).
		Bold(true)

	b.WriteString(tui.TitleStyle.Render("Let's find your therapist"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s",
		tui.ProgressBar(m.assessment.Progress(), 30),
		tui.DimStyle.Render(fmt.Sprintf("Question %d of %d", m.assessment.Index()+1, m.assessment.Total()))))
	b.WriteString("\n\n")

	b.WriteString(questionStyle.Render(q.Prompt))
	b.WriteString("\n\n")

	if q.Kind == intake.KindFreeText {
		b.WriteString(m.freeText.View())
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("Optional · Enter to finish · Esc: Previous question"))
	} else {
		for i, opt := range q.Options {
			prefix := "  "
			label := tui.NormalStyle.Render(opt.Text)
			if i == m.selected {
				prefix = "❯ "
				label = tui.SelectedStyle.Render(opt.Text)
			}
			b.WriteString(fmt.Sprintf("%s%d. %s\n", prefix, i+1, label))
		}
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Enter to select · ↑↓ to navigate · ←/Esc: Previous question"))
	}

	if m.submitted {
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("Matching you with a therapist..."))
	}

	boxWidth := maxIntakeWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}
