// Package state provides the persisted application state for bread and
// the store that owns it. All mutation goes through Store methods.
package state

import (
	"time"

	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/persona"
)

// SchemaVersion is written into every saved AppState.
const SchemaVersion = 1

// Fixed substrate keys.
const (
	AppStateKey = "therapyAppState"
	UsersKey    = "therapyUsers"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UserRecord is the public part of a registered user, as returned by
// the credential store.
type UserRecord struct {
	Username        string    `json:"username"`
	CreatedAt       time.Time `json:"createdAt"`
	IntakeCompleted bool      `json:"intakeCompleted"`
}

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionRecord is an archived transcript. Records are never modified
// after creation.
type SessionRecord struct {
	ID           string        `json:"id"`
	Persona      persona.ID    `json:"therapist"`
	Messages     []ChatMessage `json:"messages"`
	Date         time.Time     `json:"date"`
	MessageCount int           `json:"messageCount"`
}

// Goal is a user goal that can be ticked off.
type Goal struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Created   time.Time `json:"created"`
	Completed bool      `json:"completed"`
}

// ProgressNote is a dated free-text note.
type ProgressNote struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Preferences holds user-adjustable settings.
type Preferences struct {
	Model         string `json:"selectedModel"`
	AutosaveEvery int    `json:"autosaveEvery"`
}

// AppState is the single persisted aggregate.
type AppState struct {
	Version         int                `json:"version"`
	User            *UserRecord        `json:"user"`
	Persona         persona.ID         `json:"currentTherapist"`
	Recommended     persona.ID         `json:"recommendedTherapist"`
	IntakeResponses intake.ResponseSet `json:"intakeResponses"`
	Transcript      []ChatMessage      `json:"chatHistory"`
	Sessions        []SessionRecord    `json:"sessions"`
	Goals           []Goal             `json:"goals"`
	Notes           []ProgressNote     `json:"progressNotes"`
	Preferences     Preferences        `json:"preferences"`
}

// Default preference values.
const (
	DefaultModel         = "gpt-4o"
	DefaultAutosaveEvery = 4
)

// NewAppState returns the state of a fresh install.
func NewAppState() AppState {
	s := AppState{Version: SchemaVersion}
	s.normalize()
	return s
}

// normalize fills nil collections and zero preferences so that a
// loaded state compares equal to the one that was saved.
func (s *AppState) normalize() {
	if s.Version == 0 {
		s.Version = SchemaVersion
	}
	if s.IntakeResponses == nil {
		s.IntakeResponses = intake.ResponseSet{}
	}
	if s.Transcript == nil {
		s.Transcript = []ChatMessage{}
	}
	if s.Sessions == nil {
		s.Sessions = []SessionRecord{}
	}
	for i := range s.Sessions {
		if s.Sessions[i].Messages == nil {
			s.Sessions[i].Messages = []ChatMessage{}
		}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	if s.Notes == nil {
		s.Notes = []ProgressNote{}
	}
	if s.Preferences.Model == "" {
		s.Preferences.Model = DefaultModel
	}
	if s.Preferences.AutosaveEvery <= 0 {
		s.Preferences.AutosaveEvery = DefaultAutosaveEvery
	}
}

// clone returns a deep copy of s.
func (s AppState) clone() AppState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.IntakeResponses = make(intake.ResponseSet, len(s.IntakeResponses))
	for k, v := range s.IntakeResponses {
		out.IntakeResponses[k] = v
	}
	out.Transcript = append([]ChatMessage{}, s.Transcript...)
	out.Sessions = make([]SessionRecord, len(s.Sessions))
	for i, rec := range s.Sessions {
		rec.Messages = append([]ChatMessage{}, rec.Messages...)
		out.Sessions[i] = rec
	}
	out.Goals = append([]Goal{}, s.Goals...)
	out.Notes = append([]ProgressNote{}, s.Notes...)
	return out
}
