// Package app wires configuration, storage, credentials and the event
// log into the handle shared by the CLI commands and the TUI.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/berth-dev/bread/internal/auth"
	"github.com/berth-dev/bread/internal/config"
	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/log"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/reply"
	"github.com/berth-dev/bread/internal/state"
)

var (
	ErrNotLoggedIn = errors.New("not logged in; run: bread login")
	ErrNoPersona   = errors.New("no therapist selected; run: bread select <therapist>")
	ErrEmptyInput  = errors.New("message must not be empty")
)

// App is one opened bread data directory. Its methods serialize access
// to the store, so the TUI may call them from concurrent commands.
type App struct {
	mu sync.Mutex

	Cfg       *config.Config
	Root      string
	Store     *state.Store
	Users     *auth.Store
	Events    *log.Logger
	Diag      *zap.Logger
	Questions []intake.Question

	closer func() error
}

// Open opens the SQLite database and event log under root and loads the
// persisted state. Persistence warnings raised while loading are logged
// and returned alongside a usable App.
func Open(ctx context.Context, root string, cfg *config.Config) (*App, error) {
	questions := intake.MustDefault()

	events, err := log.NewLogger(cfg.LogDir(root))
	if err != nil {
		return nil, err
	}
	diag, err := log.NewDiagnostic(cfg.LogMode, cfg.LogDir(root))
	if err != nil {
		return nil, fmt.Errorf("diagnostic logger: %w", err)
	}

	sub, err := state.OpenSQLite(cfg.DatabasePath(root))
	if err != nil {
		return nil, err
	}
	return open(ctx, root, cfg, sub, events, diag, questions, sub.Close)
}

// Option tunes the stores built by OpenWith.
type Option func(*options)

type options struct {
	auth  []auth.Option
	store []state.Option
}

// WithAuth passes options to the credential store.
func WithAuth(opts ...auth.Option) Option {
	return func(o *options) { o.auth = append(o.auth, opts...) }
}

// WithStore passes options to the state store, e.g. state.WithClock.
func WithStore(opts ...state.Option) Option {
	return func(o *options) { o.store = append(o.store, opts...) }
}

// OpenWith builds an App over an existing substrate. Tests use it with
// state.MemorySubstrate.
func OpenWith(ctx context.Context, root string, cfg *config.Config, sub state.Substrate, events *log.Logger, opts ...Option) (*App, error) {
	return open(ctx, root, cfg, sub, events, zap.NewNop(), intake.MustDefault(), nil, opts...)
}

func open(ctx context.Context, root string, cfg *config.Config, sub state.Substrate, events *log.Logger, diag *zap.Logger,
	questions []intake.Question, closer func() error, opts ...Option) (*App, error) {

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store := state.NewStore(sub, append([]state.Option{state.WithLogger(diag)}, o.store...)...)
	users, usersErr := auth.Open(ctx, sub, append([]auth.Option{auth.WithLogger(diag)}, o.auth...)...)
	if usersErr != nil && !errors.Is(usersErr, state.ErrPersist) {
		return nil, usersErr
	}

	a := &App{
		Cfg:       cfg,
		Root:      root,
		Store:     store,
		Users:     users,
		Events:    events,
		Diag:      diag,
		Questions: questions,
		closer:    closer,
	}

	_, loadErr := store.Load(ctx)
	if st := store.Snapshot(); st.Preferences.AutosaveEvery == state.DefaultAutosaveEvery &&
		cfg.Chat.AutosaveEvery > 0 && cfg.Chat.AutosaveEvery != state.DefaultAutosaveEvery {
		prefs := st.Preferences
		prefs.AutosaveEvery = cfg.Chat.AutosaveEvery
		loadErr = errors.Join(loadErr, store.SetPreferences(ctx, prefs))
	}

	return a, a.warn("open", errors.Join(usersErr, loadErr))
}

// Close releases the database and flushes the diagnostic logger.
func (a *App) Close() error {
	_ = a.Diag.Sync()
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// IsWarning reports whether err only carries persistence warnings.
func IsWarning(err error) bool {
	return err != nil && errors.Is(err, state.ErrPersist)
}

// warn records persistence failures in the event log. It returns err
// unchanged so callers can decide how loudly to report it.
func (a *App) warn(step string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, state.ErrPersist) {
		a.event(log.LogEvent{Event: log.EventPersistFailed, Step: step, Error: err.Error()})
	}
	return err
}

func (a *App) event(e log.LogEvent) {
	if a.Events == nil {
		return
	}
	if st := a.Store.Snapshot(); st.User != nil && e.User == "" {
		e.User = st.User.Username
	}
	if err := a.Events.Append(e); err != nil {
		a.Diag.Warn("appending event failed", zap.String("event", e.Event), zap.Error(err))
	}
}

// Snapshot returns a copy of the current state for rendering.
func (a *App) Snapshot() state.AppState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Store.Snapshot()
}

// Persona returns the active persona, if any.
func (a *App) Persona() (persona.Persona, bool) {
	return persona.Lookup(a.Snapshot().Persona)
}

// RequireUser returns the logged-in user or ErrNotLoggedIn.
func (a *App) RequireUser() (state.UserRecord, error) {
	st := a.Snapshot()
	if st.User == nil {
		return state.UserRecord{}, ErrNotLoggedIn
	}
	return *st.User, nil
}

// Generate produces assistant replies. Tests may swap it.
var Generate = reply.Generate
