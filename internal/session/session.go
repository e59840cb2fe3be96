package session

import (
	"context"
	"fmt"
	"sync"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/logx"
)

// State is the lifecycle stage of a Session.
type State int

// Session lifecycle: Init until the persisted snapshot is read, then Active or Cleared.
const (
	StateInit State = iota
	StateActive
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateActive:
		return "active"
	case StateCleared:
		return "cleared"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is what gets persisted between runs.
type Snapshot struct {
	Token string
	User  domain.User
}

// Storage persists the session snapshot.
type Storage interface {
	// Load returns nil when nothing is stored.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}

// Session holds the authenticated identity and bearer token.
// It is constructed once and passed explicitly to every component that needs it.
type Session struct {
	mu     sync.RWMutex
	store  Storage
	logger logx.Logger
	state  State
	snap   Snapshot
}

// New creates a Session in StateInit. Call Init before use.
func New(store Storage, logger logx.Logger) *Session {
	if store == nil {
		store = NewMemoryStorage()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Session{store: store, logger: logger, state: StateInit}
}

// Init reads the persisted snapshot and moves to Active or Cleared.
func (s *Session) Init(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("session init: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil || snap.Token == "" {
		s.state = StateCleared
		s.snap = Snapshot{}
		return nil
	}
	s.state = StateActive
	s.snap = *snap
	s.logger.Debug("session restored", logx.String("username", snap.User.Username))
	return nil
}

// Activate stores a fresh token and identity.
func (s *Session) Activate(ctx context.Context, token string, user domain.User) error {
	if token == "" {
		return fmt.Errorf("session activate: empty token: %w", apperr.ErrInvalid)
	}
	snap := Snapshot{Token: token, User: user}
	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("session activate: %w", err)
	}

	s.mu.Lock()
	s.state = StateActive
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info("session activated", logx.String("username", user.Username))
	return nil
}

// Clear drops the token and identity, both in memory and in storage.
// The in-memory state is cleared even when storage fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	wasActive := s.state == StateActive
	s.state = StateCleared
	s.snap = Snapshot{}
	s.mu.Unlock()

	if wasActive {
		s.logger.Info("session cleared")
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// State returns the lifecycle stage.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Active reports whether a token is held.
func (s *Session) Active() bool { return s.State() == StateActive }

// Token returns the bearer token, if any.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token, s.state == StateActive
}

// User returns the authenticated identity, if any.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.User, s.state == StateActive
}
