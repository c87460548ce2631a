package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/reply"
	"github.com/berth-dev/bread/internal/state"
	"github.com/berth-dev/bread/internal/tui"
)

// roleSystem marks local status lines that are never persisted.
const roleSystem = "system"

// ============================================================================
// ChatModel
// ============================================================================

// ChatModel is the view model for the conversation with one persona.
type ChatModel struct {
	persona   persona.Persona
	messages  []state.ChatMessage
	textarea  textarea.Model
	viewport  viewport.Model
	isLoading bool
	spinner   spinner.Model
	width     int
	height    int
}

// NewChatModel creates a ChatModel showing transcript. An empty
// transcript opens with the persona's greeting.
func NewChatModel(p persona.Persona, transcript []state.ChatMessage, width, height int) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Share what's on your mind... (Enter to send)"
	ta.CharLimit = 5000
	ta.SetWidth(width - 8) // Account for box padding
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Configure key bindings: Shift+Enter for newline, Enter for submit
	keyMap := ta.KeyMap
	keyMap.InsertNewline = tui.DefaultKeyMap.NewLine
	ta.KeyMap = keyMap
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.TitleStyle

	vpWidth, vpHeight := chatViewportSize(width, height)
	vp := viewport.New(vpWidth, vpHeight)

	messages := transcript
	if len(messages) == 0 {
		messages = []state.ChatMessage{{Role: state.RoleAssistant, Content: reply.Greeting(p)}}
	}

	m := ChatModel{
		persona:  p,
		messages: messages,
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		width:    width,
		height:   height,
	}
	m.refresh()
	return m
}

// Reserve space for: header (2 lines), loading indicator (2 lines), textarea (5 lines), footer (2 lines)
func chatViewportSize(width, height int) (int, int) {
	vpHeight := height - 16
	if vpHeight < 5 {
		vpHeight = 5
	}
	vpWidth := width - 8
	if vpWidth < 20 {
		vpWidth = 20
	}
	return vpWidth, vpHeight
}

// Init returns the initial command for the chat view.
func (m ChatModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Enter):
			content := strings.TrimSpace(m.textarea.Value())
			if content == "" || m.isLoading {
				return m, nil
			}
			m.messages = append(m.messages, state.ChatMessage{Role: state.RoleUser, Content: content})
			m.refresh()
			m.textarea.Reset()
			m.isLoading = true
			return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
				return tui.SendChatMsg{Content: content}
			})

		case key.Matches(msg, tui.DefaultKeyMap.Escape):
			if m.isLoading {
				return m, nil
			}
			return m, func() tea.Msg {
				return tui.ExitChatMsg{}
			}
		}

	case tui.ChatResponseMsg:
		m.isLoading = false
		if msg.Exchange.Reply.Content != "" {
			m.messages = append(m.messages, msg.Exchange.Reply)
		}
		if msg.Exchange.Archived != nil {
			m.messages = append(m.messages, state.ChatMessage{
				Role:    roleSystem,
				Content: fmt.Sprintf("Session saved to history (%d messages).", msg.Exchange.Archived.MessageCount),
			})
		}
		m.refresh()
		return m, nil

	case tui.SessionSavedMsg:
		if msg.Saved {
			m.messages = append(m.messages, state.ChatMessage{Role: roleSystem, Content: "Session saved to history."})
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width, m.viewport.Height = chatViewportSize(msg.Width, msg.Height)
		m.textarea.SetWidth(m.viewport.Width)
		m.refresh()
		return m, nil
	}

	if !m.isLoading {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update viewport for scrolling
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ChatModel) refresh() {
	m.viewport.SetContent(formatMessages(m.persona, m.messages, m.viewport.Width))
	m.viewport.GotoBottom()
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render(m.persona.Label()))
	b.WriteString(" ")
	b.WriteString(tui.DimStyle.Render(m.persona.Approach))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if m.isLoading {
		b.WriteString(fmt.Sprintf("%s %s is typing...", m.spinner.View(), m.persona.Name))
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render(m.textarea.View()))
	} else {
		b.WriteString(m.textarea.View())
	}
	b.WriteString("\n\n")

	b.WriteString(tui.DimStyle.Render("Enter: Send · Shift+Enter: New line · Ctrl+S: Save session · Esc: Therapists"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// formatMessages formats the transcript for display in the viewport.
func formatMessages(p persona.Persona, messages []state.ChatMessage, width int) string {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(width)

	for i, msg := range messages {
		switch msg.Role {
		case state.RoleUser:
			b.WriteString(tui.UserStyle.Render("You: "))
		case state.RoleAssistant:
			b.WriteString(tui.TitleStyle.Render(p.Name + ": "))
		default:
			b.WriteString(tui.DimStyle.Render(msg.Content))
			if i < len(messages)-1 {
				b.WriteString("\n\n")
			}
			continue
		}
		b.WriteString(wrap.Render(msg.Content))

		if i < len(messages)-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}
