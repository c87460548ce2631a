package app

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/berth-dev/bread/internal/cleanup"
	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/log"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
)

// Signup registers a user and logs them in.
func (a *App) Signup(ctx context.Context, username, password string) (state.UserRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.Users.Register(ctx, username, password)
	if err != nil && !errors.Is(err, state.ErrPersist) {
		return state.UserRecord{}, err
	}
	switchErr := a.switchUser(ctx, rec)
	a.event(log.LogEvent{Event: log.EventUserRegistered, User: rec.Username})
	return rec, a.warn("signup", errors.Join(err, switchErr))
}

// Login authenticates and records the user as current.
func (a *App) Login(ctx context.Context, username, password string) (state.UserRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.Users.Authenticate(ctx, username, password)
	if err != nil {
		return state.UserRecord{}, err
	}
	setErr := a.switchUser(ctx, rec)
	a.event(log.LogEvent{Event: log.EventUserLoggedIn, User: rec.Username})
	return rec, a.warn("login", setErr)
}

// switchUser makes rec the current user. A different user's live
// session is dropped first so the transcript, persona and intake answers
// never carry over between accounts.
func (a *App) switchUser(ctx context.Context, rec state.UserRecord) error {
	var clearErr error
	if st := a.Store.Snapshot(); st.User != nil && st.User.Username != rec.Username {
		clearErr = a.Store.ClearSession(ctx)
	}
	return errors.Join(clearErr, a.Store.SetUser(ctx, rec))
}

// Logout optionally archives the active transcript, then clears the session.
func (a *App) Logout(ctx context.Context, archive bool) (*state.SessionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var rec *state.SessionRecord
	var errs []error
	if archive {
		r, ok, err := a.archive(ctx)
		errs = append(errs, err)
		if ok {
			rec = &r
		}
	}
	user := ""
	if st := a.Store.Snapshot(); st.User != nil {
		user = st.User.Username
	}
	errs = append(errs, a.Store.ClearSession(ctx))
	a.event(log.LogEvent{Event: log.EventLoggedOut, User: user})
	return rec, a.warn("logout", errors.Join(errs...))
}

// CompleteIntake scores a finished assessment, stores the answers and
// recommendation, and turns the free-text goal answer into a goal.
func (a *App) CompleteIntake(ctx context.Context, as *intake.Assessment) (intake.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := as.Result()

	var errs []error
	errs = append(errs, a.Store.RecordIntake(ctx, as.Responses(), res.Winner))
	if st := a.Store.Snapshot(); st.User != nil {
		errs = append(errs, a.Users.CompleteIntake(ctx, st.User.Username))
	}
	if goal := as.GoalText(); goal != "" {
		g, err := a.Store.AddGoal(ctx, goal)
		errs = append(errs, err)
		a.event(log.LogEvent{Event: log.EventGoalAdded, Data: map[string]interface{}{"goal": g.ID}})
	}

	scores := make(map[string]int, len(res.AllScores))
	for id, s := range res.AllScores {
		scores[string(id)] = s
	}
	a.event(log.LogEvent{Event: log.EventIntakeCompleted, Persona: string(res.Winner), Scores: scores})

	return res, a.warn("intake", errors.Join(errs...))
}

// SelectPersona makes id the active therapist and starts a new transcript.
func (a *App) SelectPersona(ctx context.Context, id persona.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.Store.SetActivePersona(ctx, id)
	if errors.Is(err, state.ErrUnknownPersona) {
		return err
	}
	a.event(log.LogEvent{Event: log.EventPersonaSelected, Persona: string(id)})
	return a.warn("select", err)
}

// Exchange is the outcome of one chat turn.
type Exchange struct {
	User     state.ChatMessage
	Reply    state.ChatMessage
	Archived *state.SessionRecord
}

// SendMessage records the user's message and the persona's reply. When
// the transcript reaches the autosave interval it is archived.
func (a *App) SendMessage(ctx context.Context, text string) (Exchange, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return Exchange{}, ErrEmptyInput
	}
	p, ok := persona.Lookup(a.Store.Snapshot().Persona)
	if !ok {
		return Exchange{}, ErrNoPersona
	}

	var errs []error
	userMsg, err := a.Store.AppendChatMessage(ctx, state.RoleUser, text)
	errs = append(errs, err)

	replyMsg, err := a.Store.AppendChatMessage(ctx, state.RoleAssistant, Generate(p.ID, text))
	errs = append(errs, err)
	a.event(log.LogEvent{Event: log.EventMessageSent, Persona: string(p.ID)})

	ex := Exchange{User: userMsg, Reply: replyMsg}
	if a.Store.ShouldAutosave() {
		rec, archived, err := a.archive(ctx)
		errs = append(errs, err)
		if archived {
			ex.Archived = &rec
		}
	}
	return ex, a.warn("chat", errors.Join(errs...))
}

// SaveSession archives the active transcript. It reports false when
// there was nothing to archive.
func (a *App) SaveSession(ctx context.Context) (state.SessionRecord, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok, err := a.archive(ctx)
	return rec, ok, a.warn("session", err)
}

func (a *App) archive(ctx context.Context) (state.SessionRecord, bool, error) {
	rec, ok, err := a.Store.ArchiveSession(ctx)
	if ok {
		a.event(log.LogEvent{
			Event:        log.EventSessionArchived,
			Persona:      string(rec.Persona),
			SessionID:    rec.ID,
			MessageCount: rec.MessageCount,
		})
	}
	return rec, ok, err
}

// PruneSessions drops archived sessions selected by policy. With dryRun
// set it only reports what would go.
func (a *App) PruneSessions(ctx context.Context, policy cleanup.Policy, dryRun bool) ([]state.SessionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sessions := a.Store.Snapshot().Sessions
	ids := cleanup.Select(sessions, policy, a.Store.Now())
	if dryRun {
		var selected []state.SessionRecord
		for _, rec := range sessions {
			if slices.Contains(ids, rec.ID) {
				selected = append(selected, rec)
			}
		}
		return selected, nil
	}

	removed, err := a.Store.RemoveSessions(ctx, ids)
	if len(removed) > 0 {
		a.event(log.LogEvent{Event: log.EventSessionsPruned, Data: map[string]interface{}{"count": len(removed)}})
	}
	return removed, a.warn("prune", err)
}

// AddGoal adds a goal.
func (a *App) AddGoal(ctx context.Context, text string) (state.Goal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.Store.AddGoal(ctx, text)
	if errors.Is(err, state.ErrEmptyText) {
		return g, err
	}
	a.event(log.LogEvent{Event: log.EventGoalAdded, Data: map[string]interface{}{"goal": g.ID}})
	return g, a.warn("goal", err)
}

// ToggleGoal flips a goal's completed flag.
func (a *App) ToggleGoal(ctx context.Context, id string) (state.Goal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.Store.ToggleGoal(ctx, id)
	if errors.Is(err, state.ErrGoalNotFound) {
		return g, err
	}
	a.event(log.LogEvent{Event: log.EventGoalToggled, Data: map[string]interface{}{"goal": g.ID, "completed": g.Completed}})
	return g, a.warn("goal", err)
}

// AddNote adds a progress note.
func (a *App) AddNote(ctx context.Context, text string) (state.ProgressNote, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, err := a.Store.AddProgressNote(ctx, text)
	if errors.Is(err, state.ErrEmptyText) {
		return n, err
	}
	a.event(log.LogEvent{Event: log.EventNoteAdded})
	return n, a.warn("note", err)
}
