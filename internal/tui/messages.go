package tui

import (
	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
)

// ============================================================================
// Account Messages
// ============================================================================

// AuthSubmitMsg asks to log in, or to sign up when Signup is set.
type AuthSubmitMsg struct {
	Signup   bool
	Username string
	Password string
}

// AuthResultMsg carries the outcome of AuthSubmitMsg.
type AuthResultMsg struct {
	User state.UserRecord
	Err  error
}

// LogoutMsg signals that the session was cleared.
type LogoutMsg struct {
	Err error
}

// ============================================================================
// Intake Messages
// ============================================================================

// IntakeSubmitMsg is sent after the last question is answered.
type IntakeSubmitMsg struct {
	Assessment *intake.Assessment
}

// IntakeResultMsg carries the recommendation.
type IntakeResultMsg struct {
	Result intake.Result
	Err    error
}

// ============================================================================
// Chat Messages
// ============================================================================

// SelectPersonaMsg asks to switch therapist.
type SelectPersonaMsg struct {
	ID persona.ID
}

// PersonaSelectedMsg signals that the therapist was switched.
type PersonaSelectedMsg struct {
	ID  persona.ID
	Err error
}

// SendChatMsg is sent when the user submits a chat message.
type SendChatMsg struct {
	Content string
}

// ChatResponseMsg contains the therapist's reply.
type ChatResponseMsg struct {
	Exchange app.Exchange
	Err      error
}

// SessionSavedMsg signals that the transcript was archived.
type SessionSavedMsg struct {
	Record state.SessionRecord
	Saved  bool
	Err    error
}

// ExitChatMsg signals that the user wants to pick another therapist.
type ExitChatMsg struct{}

// ============================================================================
// Profile Messages
// ============================================================================

// AddGoalMsg asks to add a goal.
type AddGoalMsg struct {
	Text string
}

// ToggleGoalMsg asks to flip a goal.
type ToggleGoalMsg struct {
	ID string
}

// AddNoteMsg asks to add a progress note.
type AddNoteMsg struct {
	Text string
}

// ProfileUpdatedMsg signals that goals or notes changed.
type ProfileUpdatedMsg struct {
	Err error
}

// ============================================================================
// Utility Messages
// ============================================================================

// CtrlCResetMsg resets the Ctrl+C confirmation after a timeout.
type CtrlCResetMsg struct{}
