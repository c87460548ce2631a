package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/auth"
	"github.com/berth-dev/bread/internal/cleanup"
	"github.com/berth-dev/bread/internal/config"
	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/log"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
	"github.com/berth-dev/bread/internal/testutil"
)

func openApp(t *testing.T, sub *state.MemorySubstrate, opts ...app.Option) (*app.App, *log.Logger) {
	t.Helper()
	root := testutil.TempRoot(t, nil)
	events, err := log.NewLogger(filepath.Join(root, "logs"))
	require.NoError(t, err)

	opts = append([]app.Option{app.WithAuth(auth.WithCost(bcrypt.MinCost))}, opts...)
	a, err := app.OpenWith(context.Background(), root, config.DefaultConfig(), sub, events, opts...)
	require.NoError(t, err)
	return a, events
}

func TestFullJourney(t *testing.T) {
	ctx := context.Background()
	sub := state.NewMemorySubstrate()
	a, events := openApp(t, sub)

	_, err := a.Signup(ctx, "ada", "s3cret")
	require.NoError(t, err)

	as := intake.NewAssessment(a.Questions)
	as.Answer("primary_concern", intake.Choice(0))
	as.Answer("therapy_preference", intake.Choice(0))
	as.Answer(intake.GoalsQuestionID, intake.FreeText("sleep better"))
	res, err := a.CompleteIntake(ctx, as)
	require.NoError(t, err)
	assert.Equal(t, persona.Sourdough, res.Winner)

	st := a.Store.Snapshot()
	require.NotNil(t, st.User)
	assert.True(t, st.User.IntakeCompleted)
	assert.Equal(t, persona.Sourdough, st.Recommended)
	require.Len(t, st.Goals, 1)
	assert.Equal(t, "sleep better", st.Goals[0].Text)

	require.NoError(t, a.SelectPersona(ctx, res.Winner))

	ex, err := a.SendMessage(ctx, "I feel anxious about work")
	require.NoError(t, err)
	assert.Nil(t, ex.Archived)
	assert.Equal(t, state.RoleAssistant, ex.Reply.Role)
	assert.NotEmpty(t, ex.Reply.Content)

	ex, err = a.SendMessage(ctx, "it keeps me up at night")
	require.NoError(t, err)
	require.NotNil(t, ex.Archived, "fourth message should trigger autosave")
	assert.Equal(t, 4, ex.Archived.MessageCount)

	st = a.Store.Snapshot()
	assert.Empty(t, st.Transcript)
	assert.Len(t, st.Sessions, 1)

	logged, err := events.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, 1, log.Count(logged, log.EventUserRegistered))
	assert.Equal(t, 1, log.Count(logged, log.EventIntakeCompleted))
	assert.Equal(t, 2, log.Count(logged, log.EventMessageSent))
	assert.Equal(t, 1, log.Count(logged, log.EventSessionArchived))

	// A second process sees the same user and state.
	b, _ := openApp(t, sub)
	_, err = b.Login(ctx, "ada", "s3cret")
	require.NoError(t, err)
	assert.Len(t, b.Store.Snapshot().Sessions, 1)
}

func TestLoginErrors(t *testing.T) {
	ctx := context.Background()
	a, _ := openApp(t, state.NewMemorySubstrate())

	_, err := a.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, auth.ErrNotFound)

	_, err = a.Signup(ctx, "ada", "pw")
	require.NoError(t, err)
	_, err = a.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, auth.ErrWrongSecret)

	_, err = a.Signup(ctx, "ada", "pw")
	assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)
}

func TestSignupOverAnotherUserStartsClean(t *testing.T) {
	ctx := context.Background()
	a, _ := openApp(t, state.NewMemorySubstrate())

	_, err := a.Signup(ctx, "ada", "pw")
	require.NoError(t, err)
	as := intake.NewAssessment(a.Questions)
	as.Answer("primary_concern", intake.Choice(0))
	_, err = a.CompleteIntake(ctx, as)
	require.NoError(t, err)
	require.NoError(t, a.SelectPersona(ctx, persona.Sourdough))
	_, err = a.SendMessage(ctx, "my private secret")
	require.NoError(t, err)

	_, err = a.Signup(ctx, "bob", "pw")
	require.NoError(t, err)

	st := a.Store.Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, "bob", st.User.Username)
	assert.False(t, st.User.IntakeCompleted)
	assert.Empty(t, st.Persona)
	assert.Empty(t, st.Recommended)
	assert.Empty(t, st.IntakeResponses)
	assert.Empty(t, st.Transcript)
}

func TestLoginSwitchesUserAndKeepsOwnSession(t *testing.T) {
	ctx := context.Background()
	a, _ := openApp(t, state.NewMemorySubstrate())

	_, err := a.Signup(ctx, "bob", "pw")
	require.NoError(t, err)
	_, err = a.Signup(ctx, "ada", "pw")
	require.NoError(t, err)
	require.NoError(t, a.SelectPersona(ctx, persona.Rye))
	_, err = a.SendMessage(ctx, "hello")
	require.NoError(t, err)

	// Logging in again as the current user keeps the live session.
	_, err = a.Login(ctx, "ada", "pw")
	require.NoError(t, err)
	st := a.Store.Snapshot()
	assert.Equal(t, persona.Rye, st.Persona)
	assert.Len(t, st.Transcript, 2)

	_, err = a.Login(ctx, "bob", "pw")
	require.NoError(t, err)
	st = a.Store.Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, "bob", st.User.Username)
	assert.Empty(t, st.Persona)
	assert.Empty(t, st.Transcript)
}

func TestSendMessageRequiresPersona(t *testing.T) {
	a, _ := openApp(t, state.NewMemorySubstrate())

	_, err := a.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, app.ErrNoPersona)

	_, err = a.SendMessage(context.Background(), "   ")
	assert.ErrorIs(t, err, app.ErrEmptyInput)
}

func TestLogoutArchivesAndKeepsHistory(t *testing.T) {
	ctx := context.Background()
	a, _ := openApp(t, state.NewMemorySubstrate())

	_, err := a.Signup(ctx, "ada", "pw")
	require.NoError(t, err)
	require.NoError(t, a.SelectPersona(ctx, persona.Rye))
	_, err = a.SendMessage(ctx, "what is the point of it all")
	require.NoError(t, err)

	rec, err := a.Logout(ctx, true)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, persona.Rye, rec.Persona)

	st := a.Store.Snapshot()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Persona)
	assert.Len(t, st.Sessions, 1)

	_, err = a.RequireUser()
	assert.ErrorIs(t, err, app.ErrNotLoggedIn)
}

func TestPruneSessionsKeepsNewest(t *testing.T) {
	ctx := context.Background()
	a, events := openApp(t, state.NewMemorySubstrate())

	_, err := a.Signup(ctx, "ada", "pw")
	require.NoError(t, err)
	require.NoError(t, a.SelectPersona(ctx, persona.Naan))
	for _, text := range []string{"one", "two", "three"} {
		_, err = a.SendMessage(ctx, text)
		require.NoError(t, err)
		_, ok, err := a.SaveSession(ctx)
		require.NoError(t, err)
		require.True(t, ok)
	}

	preview, err := a.PruneSessions(ctx, cleanup.Policy{Keep: 1}, true)
	require.NoError(t, err)
	assert.Len(t, preview, 2)
	assert.Len(t, a.Snapshot().Sessions, 3)

	removed, err := a.PruneSessions(ctx, cleanup.Policy{Keep: 1}, false)
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.Len(t, a.Snapshot().Sessions, 1)

	all, err := events.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, 1, log.Count(all, log.EventSessionsPruned))
}

func TestPruneSessionsByAgeUsesStoreClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	a, _ := openApp(t, state.NewMemorySubstrate(), app.WithStore(state.WithClock(func() time.Time { return now })))

	_, err := a.Signup(ctx, "ada", "pw")
	require.NoError(t, err)
	require.NoError(t, a.SelectPersona(ctx, persona.Naan))
	for _, day := range []time.Time{
		time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),
	} {
		now = day
		_, err = a.SendMessage(ctx, "checking in")
		require.NoError(t, err)
		_, ok, err := a.SaveSession(ctx)
		require.NoError(t, err)
		require.True(t, ok)
	}

	now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	removed, err := a.PruneSessions(ctx, cleanup.Policy{MaxAgeDays: 30}, false)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), removed[0].Date)

	sessions := a.Snapshot().Sessions
	require.Len(t, sessions, 1)
	assert.Equal(t, time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC), sessions[0].Date)
}

func TestPersistFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	sub := state.NewMemorySubstrate()
	a, events := openApp(t, sub)

	sub.Quota = 10
	_, err := a.AddGoal(ctx, "walk every day")
	require.Error(t, err)
	assert.True(t, app.IsWarning(err))
	assert.True(t, errors.Is(err, state.ErrQuotaExceeded))
	assert.Len(t, a.Store.Snapshot().Goals, 1, "in-memory state is kept")

	logged, err := events.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, 1, log.Count(logged, log.EventPersistFailed))
}

func TestOpenToleratesCorruptState(t *testing.T) {
	sub := state.NewMemorySubstrate()
	sub.Raw(state.AppStateKey, []byte("{not json"))

	root := testutil.TempRoot(t, nil)
	a, err := app.OpenWith(context.Background(), root, config.DefaultConfig(), sub, nil)
	require.Error(t, err)
	assert.True(t, app.IsWarning(err))
	require.NotNil(t, a)
	assert.Nil(t, a.Store.Snapshot().User)
}

func TestOpenAppliesConfiguredAutosave(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Chat.AutosaveEvery = 2

	a, err := app.OpenWith(context.Background(), t.TempDir(), cfg, state.NewMemorySubstrate(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Store.Snapshot().Preferences.AutosaveEvery)

	ctx := context.Background()
	require.NoError(t, a.SelectPersona(ctx, persona.Naan))
	ex, err := a.SendMessage(ctx, "breathing helps")
	require.NoError(t, err)
	assert.NotNil(t, ex.Archived)
}

func TestGoalsAndNotes(t *testing.T) {
	ctx := context.Background()
	a, _ := openApp(t, state.NewMemorySubstrate())

	g, err := a.AddGoal(ctx, "journal")
	require.NoError(t, err)
	g, err = a.ToggleGoal(ctx, g.ID[:4])
	require.NoError(t, err)
	assert.True(t, g.Completed)

	_, err = a.ToggleGoal(ctx, "zzzz-missing")
	assert.ErrorIs(t, err, state.ErrGoalNotFound)

	_, err = a.AddNote(ctx, "  ")
	assert.ErrorIs(t, err, state.ErrEmptyText)
	n, err := a.AddNote(ctx, "slept 7 hours")
	require.NoError(t, err)
	assert.Equal(t, "slept 7 hours", n.Text)
}
