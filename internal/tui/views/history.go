package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
	"github.com/berth-dev/bread/internal/tui"
)

// ============================================================================
// SessionItem
// ============================================================================

// SessionItem implements list.Item for the session history list.
type SessionItem struct {
	session state.SessionRecord
}

// Title returns the therapist name for list display.
func (i SessionItem) Title() string {
	if p, ok := persona.Lookup(i.session.Persona); ok {
		return p.Label()
	}
	return string(i.session.Persona)
}

// Description returns the date and size for list display.
func (i SessionItem) Description() string {
	return fmt.Sprintf("%s (%d messages)",
		i.session.Date.Local().Format("Jan 02, 2006 15:04"),
		i.session.MessageCount,
	)
}

// FilterValue returns the value used for filtering in the list.
func (i SessionItem) FilterValue() string {
	return i.Title()
}

// ============================================================================
// HistoryModel
// ============================================================================

// HistoryModel lists archived sessions, newest first, and opens one
// read-only transcript at a time.
type HistoryModel struct {
	sessions    []state.SessionRecord
	sessionList list.Model
	viewport    viewport.Model
	open        bool
	width       int
	height      int
}

// maxHistoryWidth is the maximum width for the history box.
const maxHistoryWidth = 110

// maxContentHeight is the maximum height for scrollable content areas.
const maxContentHeight = 15

// NewHistoryModel creates a HistoryModel over sessions in stored order.
func NewHistoryModel(sessions []state.SessionRecord, width, height int) HistoryModel {
	contentWidth := maxHistoryWidth - 8

	items := make([]list.Item, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		items = append(items, SessionItem{session: sessions[i]})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("#B45309")).
		BorderForeground(lipgloss.Color("#B45309"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("#9CA3AF"))

	l := list.New(items, delegate, contentWidth, maxContentHeight)
	l.Title = "Past sessions"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return HistoryModel{
		sessions:    sessions,
		sessionList: l,
		viewport:    viewport.New(contentWidth, maxContentHeight),
		width:       width,
		height:      height,
	}
}

// Init returns the initial command for the history view.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Filtering reports whether the list is capturing keys for its filter.
func (m HistoryModel) Filtering() bool {
	return m.sessionList.FilterState() == list.Filtering
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.open {
			if key.Matches(msg, tui.DefaultKeyMap.Escape) {
				m.open = false
				return m, nil
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if !m.Filtering() && key.Matches(msg, tui.DefaultKeyMap.Enter) {
			if item, ok := m.sessionList.SelectedItem().(SessionItem); ok {
				p, _ := persona.Lookup(item.session.Persona)
				m.viewport.SetContent(formatMessages(p, item.session.Messages, m.viewport.Width))
				m.viewport.GotoTop()
				m.open = true
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	m.sessionList, cmd = m.sessionList.Update(msg)
	return m, cmd
}

// View renders the history view.
func (m HistoryModel) View() string {
	var b strings.Builder

	switch {
	case len(m.sessions) == 0:
		b.WriteString(tui.TitleStyle.Render("Past sessions"))
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("No saved sessions yet. Press Ctrl+S in chat to save one."))
	case m.open:
		if item, ok := m.sessionList.SelectedItem().(SessionItem); ok {
			b.WriteString(tui.TitleStyle.Render(item.Title()))
			b.WriteString(" ")
			b.WriteString(tui.DimStyle.Render(item.Description()))
			b.WriteString("\n\n")
		}
		b.WriteString(m.viewport.View())
	default:
		b.WriteString(m.sessionList.View())
	}

	b.WriteString("\n\n")
	if m.open {
		b.WriteString(tui.DimStyle.Render("j/k: Scroll · Esc: Back to list"))
	} else {
		b.WriteString(tui.DimStyle.Render("Enter: Open · /: Filter · Tab: Switch tabs"))
	}

	boxWidth := maxHistoryWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}
