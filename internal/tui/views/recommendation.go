package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/tui"
)

// maxRecommendationWidth is the maximum width for the recommendation box.
const maxRecommendationWidth = 100

// RecommendationModel shows the intake result and the therapist picker.
type RecommendationModel struct {
	result      *intake.Result
	recommended persona.ID
	current     persona.ID
	personas    []persona.Persona
	selected    int
	width       int
	height      int
}

// NewRecommendationModel lists every persona with the cursor on the
// recommended one. result may be nil when the user returns from chat.
func NewRecommendationModel(result *intake.Result, recommended, current persona.ID, width, height int) RecommendationModel {
	m := RecommendationModel{
		result:      result,
		recommended: recommended,
		current:     current,
		personas:    persona.All(),
		width:       width,
		height:      height,
	}
	focus := recommended
	if current != "" {
		focus = current
	}
	if i := focus.Order(); i >= 0 {
		m.selected = i
	}
	return m
}

// Init returns the initial command for the recommendation view.
func (m RecommendationModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the recommendation view.
func (m RecommendationModel) Update(msg tea.Msg) (RecommendationModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, tui.DefaultKeyMap.Down):
			if m.selected < len(m.personas)-1 {
				m.selected++
			}
		case key.Matches(msg, tui.DefaultKeyMap.Enter):
			id := m.personas[m.selected].ID
			return m, func() tea.Msg {
				return tui.SelectPersonaMsg{ID: id}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the recommendation view.
func (m RecommendationModel) View() string {
	var b strings.Builder

	if m.result != nil {
		b.WriteString(tui.TitleStyle.Render("Your recommendation"))
		b.WriteString("\n\n")
		b.WriteString(intake.Explain(*m.result))
		b.WriteString("\n\n")
	} else {
		b.WriteString(tui.TitleStyle.Render("Choose your therapist"))
		b.WriteString("\n\n")
	}

	for i, p := range m.personas {
		prefix := "  "
		label := tui.NormalStyle.Render(p.Label())
		if i == m.selected {
			prefix = "❯ "
			label = tui.SelectedStyle.Render(p.Label())
		}
		var tags []string
		if p.ID == m.recommended {
			tags = append(tags, tui.SuccessStyle.Render("recommended"))
		}
		if p.ID == m.current {
			tags = append(tags, tui.DimStyle.Render("current"))
		}
		line := fmt.Sprintf("%s%s  %s", prefix, label, tui.DimStyle.Render(p.Approach))
		if len(tags) > 0 {
			line += "  " + strings.Join(tags, " ")
		}
		b.WriteString(line)
		b.WriteString("\n")
		if i == m.selected {
			b.WriteString("     ")
			b.WriteString(tui.DimStyle.Render(p.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Enter: Start chatting · ↑↓ to navigate · Ctrl+C: Exit"))

	boxWidth := maxRecommendationWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}
