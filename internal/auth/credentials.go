// Package auth implements the local credential store: registration and
// hash-and-compare login for users of one device.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/berth-dev/bread/internal/state"
)

// Identity errors. Each is a distinct user-facing failure.
var (
	ErrDuplicateIdentity = errors.New("username already exists")
	ErrNotFound          = errors.New("user not found")
	ErrWrongSecret       = errors.New("invalid password")
	ErrInvalidInput      = errors.New("username and password are required")
)

// credential is the persisted form of a user, hash included.
type credential struct {
	Username        string    `json:"username"`
	PasswordHash    string    `json:"passwordHash"`
	CreatedAt       time.Time `json:"createdAt"`
	IntakeCompleted bool      `json:"intakeCompleted"`
}

func (c credential) record() state.UserRecord {
	return state.UserRecord{
		Username:        c.Username,
		CreatedAt:       c.CreatedAt,
		IntakeCompleted: c.IntakeCompleted,
	}
}

// Store keeps credentials under state.UsersKey on a substrate.
type Store struct {
	sub   state.Substrate
	users map[string]credential
	cost  int
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open reads the user table from sub. An unreadable or corrupt table is
// logged and treated as empty; the returned error then wraps
// state.ErrPersist and the store is still usable.
func Open(ctx context.Context, sub state.Substrate, opts ...Option) (*Store, error) {
	s := &Store{
		sub:   sub,
		users: make(map[string]credential),
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := sub.Get(ctx, state.UsersKey)
	if err != nil {
		s.log.Warn("reading users failed", zap.Error(err))
		return s, fmt.Errorf("%w: read users: %w", state.ErrPersist, err)
	}
	if !ok {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.users); err != nil {
		s.log.Warn("discarding unparseable users table", zap.Error(err))
		s.users = make(map[string]credential)
		return s, fmt.Errorf("%w: parse users: %w", state.ErrPersist, err)
	}
	return s, nil
}

// Register creates a user. A persistence failure is reported wrapped in
// state.ErrPersist alongside a valid record.
func (s *Store) Register(ctx context.Context, username, password string) (state.UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return state.UserRecord{}, ErrInvalidInput
	}
	if _, exists := s.users[username]; exists {
		return state.UserRecord{}, fmt.Errorf("%w: %s", ErrDuplicateIdentity, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return state.UserRecord{}, fmt.Errorf("hash password: %w", err)
	}

	c := credential{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	s.users[username] = c
	return c.record(), s.save(ctx)
}

// Authenticate checks the password and returns the user's record.
func (s *Store) Authenticate(_ context.Context, username, password string) (state.UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return state.UserRecord{}, ErrInvalidInput
	}
	c, ok := s.users[username]
	if !ok {
		return state.UserRecord{}, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return state.UserRecord{}, ErrWrongSecret
	}
	return c.record(), nil
}

// CompleteIntake marks the user's intake as done. Unknown users are ignored.
func (s *Store) CompleteIntake(ctx context.Context, username string) error {
	c, ok := s.users[username]
	if !ok {
		return nil
	}
	c.IntakeCompleted = true
	s.users[username] = c
	return s.save(ctx)
}

// Count returns the number of registered users.
func (s *Store) Count() int {
	return len(s.users)
}

func (s *Store) save(ctx context.Context) error {
	data, err := json.Marshal(s.users)
	if err != nil {
		return fmt.Errorf("%w: marshal users: %w", state.ErrPersist, err)
	}
	if err := s.sub.Put(ctx, state.UsersKey, data); err != nil {
		s.log.Warn("saving users failed", zap.Error(err))
		return fmt.Errorf("%w: %w", state.ErrPersist, err)
	}
	return nil
}
