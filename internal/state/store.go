package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/persona"
)

var (
	// ErrPersist marks a failed save or load. The in-memory state is
	// still usable; callers treat it as a warning.
	ErrPersist = errors.New("state not persisted")

	ErrEmptyText      = errors.New("text must not be empty")
	ErrGoalNotFound   = errors.New("goal not found")
	ErrUnknownPersona = errors.New("unknown therapist")
)

// Store owns the AppState. Every mutation is applied in memory first and
// then the whole aggregate is written back with one Put. A failed write
// leaves memory ahead of storage; that divergence is not reconciled.
//
// Store is meant for one logical session and is not safe for
// concurrent use.
type Store struct {
	sub   Substrate
	state AppState
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore returns a store over sub holding a fresh AppState. Call Load
// to read what is already persisted.
func NewStore(sub Substrate, opts ...Option) *Store {
	s := &Store{
		sub:   sub,
		state: NewAppState(),
		log:   zap.NewNop(),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted one. A missing or
// unparseable record yields a fresh state; in the unparseable and
// unreadable cases the returned error wraps ErrPersist.
func (s *Store) Load(ctx context.Context) (AppState, error) {
	s.state = NewAppState()

	raw, ok, err := s.sub.Get(ctx, AppStateKey)
	if err != nil {
		s.log.Warn("reading app state failed", zap.Error(err))
		return s.Snapshot(), fmt.Errorf("%w: read: %w", ErrPersist, err)
	}
	if !ok {
		return s.Snapshot(), nil
	}

	var loaded AppState
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("discarding unparseable app state", zap.Error(err), zap.Int("bytes", len(raw)))
		return s.Snapshot(), fmt.Errorf("%w: parse: %w", ErrPersist, err)
	}
	loaded.normalize()
	s.state = loaded
	return s.Snapshot(), nil
}

// Save writes the whole aggregate under AppStateKey.
func (s *Store) Save(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrPersist, err)
	}
	if err := s.sub.Put(ctx, AppStateKey, data); err != nil {
		s.log.Warn("saving app state failed", zap.Error(err), zap.Int("bytes", len(data)))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Snapshot returns a deep copy of the current state for rendering.
func (s *Store) Snapshot() AppState {
	return s.state.clone()
}

// SetUser records the logged-in user.
func (s *Store) SetUser(ctx context.Context, u UserRecord) error {
	s.state.User = &u
	return s.Save(ctx)
}

// ClearSession logs the user out: user, persona, intake results and the
// active transcript are dropped. Archived sessions, goals and notes stay.
func (s *Store) ClearSession(ctx context.Context) error {
	s.state.User = nil
	s.state.Persona = ""
	s.state.Recommended = ""
	s.state.IntakeResponses = intake.ResponseSet{}
	s.state.Transcript = []ChatMessage{}
	return s.Save(ctx)
}

// SetActivePersona selects the therapist to chat with. Switching starts
// an empty transcript.
func (s *Store) SetActivePersona(ctx context.Context, id persona.ID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPersona, id)
	}
	s.state.Persona = id
	s.state.Transcript = []ChatMessage{}
	return s.Save(ctx)
}

// RecordIntake stores the assessment answers and its recommendation.
func (s *Store) RecordIntake(ctx context.Context, responses intake.ResponseSet, recommended persona.ID) error {
	if !recommended.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPersona, recommended)
	}
	rs := make(intake.ResponseSet, len(responses))
	for k, v := range responses {
		rs[k] = v
	}
	s.state.IntakeResponses = rs
	s.state.Recommended = recommended
	if s.state.User != nil {
		s.state.User.IntakeCompleted = true
	}
	return s.Save(ctx)
}

// AppendChatMessage adds one entry to the active transcript.
func (s *Store) AppendChatMessage(ctx context.Context, role, content string) (ChatMessage, error) {
	msg := ChatMessage{Role: role, Content: content, Timestamp: s.stamp()}
	s.state.Transcript = append(s.state.Transcript, msg)
	return msg, s.Save(ctx)
}

// ArchiveSession moves the active transcript into the session list.
// With an empty transcript it does nothing and reports false.
func (s *Store) ArchiveSession(ctx context.Context) (SessionRecord, bool, error) {
	if len(s.state.Transcript) == 0 {
		return SessionRecord{}, false, nil
	}

	rec := SessionRecord{
		ID:           s.newID(),
		Persona:      s.state.Persona,
		Messages:     append([]ChatMessage{}, s.state.Transcript...),
		Date:         s.stamp(),
		MessageCount: len(s.state.Transcript),
	}
	s.state.Sessions = append(s.state.Sessions, rec)
	s.state.Transcript = []ChatMessage{}
	return rec, true, s.Save(ctx)
}

// RemoveSessions drops the archived sessions whose ID is in ids and
// returns the removed records. Nothing is saved when none match.
func (s *Store) RemoveSessions(ctx context.Context, ids []string) ([]SessionRecord, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := s.state.Sessions[:0:0]
	var removed []SessionRecord
	for _, rec := range s.state.Sessions {
		if drop[rec.ID] {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}
	if len(removed) == 0 {
		return nil, nil
	}
	s.state.Sessions = kept
	return removed, s.Save(ctx)
}

// AddGoal appends a goal with the given text.
func (s *Store) AddGoal(ctx context.Context, text string) (Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Goal{}, ErrEmptyText
	}
	g := Goal{ID: s.newID(), Text: text, Created: s.stamp()}
	s.state.Goals = append(s.state.Goals, g)
	return g, s.Save(ctx)
}

// ToggleGoal flips the completed flag of goal id. id may be a unique
// prefix of the goal id.
func (s *Store) ToggleGoal(ctx context.Context, id string) (Goal, error) {
	i, err := s.findGoal(id)
	if err != nil {
		return Goal{}, err
	}
	s.state.Goals[i].Completed = !s.state.Goals[i].Completed
	return s.state.Goals[i], s.Save(ctx)
}

// AddProgressNote appends a dated note.
func (s *Store) AddProgressNote(ctx context.Context, text string) (ProgressNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ProgressNote{}, ErrEmptyText
	}
	n := ProgressNote{ID: s.newID(), Text: text, Date: s.stamp()}
	s.state.Notes = append(s.state.Notes, n)
	return n, s.Save(ctx)
}

// SetPreferences replaces the preferences. Zero fields fall back to defaults.
func (s *Store) SetPreferences(ctx context.Context, p Preferences) error {
	s.state.Preferences = p
	s.state.normalize()
	return s.Save(ctx)
}

// ShouldAutosave reports whether the transcript has reached a multiple
// of the autosave interval.
func (s *Store) ShouldAutosave() bool {
	n := len(s.state.Transcript)
	every := s.state.Preferences.AutosaveEvery
	return n > 0 && every > 0 && n%every == 0
}

func (s *Store) findGoal(id string) (int, error) {
	var matches []int
	for i, g := range s.state.Goals {
		if g.ID == id {
			return i, nil
		}
		if id != "" && strings.HasPrefix(g.ID, id) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return -1, fmt.Errorf("%w: %q", ErrGoalNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return -1, fmt.Errorf("%w: %q is ambiguous", ErrGoalNotFound, id)
	}
}

// Now reports the store clock in UTC.
func (s *Store) Now() time.Time {
	return s.stamp()
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}
