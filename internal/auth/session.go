package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Login failure messages surfaced through State.ErrorMessage.
const (
	msgBadCredentials  = "incorrect email or password"
	msgAccountInactive = "this account has been deactivated"
)

// Store is the persistence surface the session manager needs.
// Satisfied by storage.Store.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	Remove(ctx context.Context, key string)
}

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// snapshotKey is the storage key for the persisted auth snapshot.
const snapshotKey = "auth_state"

// snapshot is the persisted shape of the authentication state.
// The error message is transient and never persisted.
type snapshot struct {
	IsAuthenticated bool  `json:"is_authenticated"`
	CurrentUser     *User `json:"current_user,omitempty"`
}

// Manager owns the authentication state.
//
// It restores a persisted session snapshot at construction, mutates state
// only through Login/Logout, and mirrors every successful login to the
// store. A restored session is trusted as-is until the next login; there
// is no re-validation against the directory.
//
// All methods are safe for concurrent use.
type Manager struct {
	dir    *Directory
	store  Store
	logger Logger

	// loginDelay simulates network latency on credential checks.
	loginDelay time.Duration

	mu    sync.RWMutex
	state State
}

// NewManager creates a session manager, restoring any persisted snapshot.
func NewManager(ctx context.Context, dir *Directory, store Store) *Manager {
	m := &Manager{
		dir:    dir,
		store:  store,
		logger: noopLogger{},
	}

	var snap snapshot
	if store.Get(ctx, snapshotKey, &snap) && snap.IsAuthenticated && snap.CurrentUser != nil {
		m.state = State{
			IsAuthenticated: true,
			CurrentUser:     snap.CurrentUser,
		}
	}

	return m
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// SetLoginDelay sets a simulated latency applied to every login attempt.
func (m *Manager) SetLoginDelay(d time.Duration) {
	m.loginDelay = d
}

// Login checks credentials against the directory and commits the result.
//
// On success the authenticated state is committed and persisted, and Login
// returns true. On failure the state is cleared, the persisted snapshot is
// removed, an error message is recorded, and Login returns false. Login
// never returns an error; failure is observable only through the boolean
// and State.ErrorMessage.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	if m.loginDelay > 0 {
		select {
		case <-time.After(m.loginDelay):
		case <-ctx.Done():
		}
	}

	user, err := m.dir.Authenticate(email, password)
	if err != nil {
		msg := msgBadCredentials
		if errors.Is(err, ErrUserInactive) {
			msg = msgAccountInactive
		}

		m.mu.Lock()
		m.state = State{ErrorMessage: &msg}
		m.mu.Unlock()

		m.store.Remove(ctx, snapshotKey)
		m.logger.Warn("login failed", "email", email)
		return false
	}

	m.mu.Lock()
	m.state = State{
		IsAuthenticated: true,
		CurrentUser:     user,
	}
	m.mu.Unlock()

	m.store.Set(ctx, snapshotKey, snapshot{
		IsAuthenticated: true,
		CurrentUser:     user,
	})

	m.logger.Info("login succeeded", "email", user.Email, "role", user.Role)
	return true
}

// Logout clears the session and removes the persisted snapshot.
// Always succeeds, including when already logged out.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.state = State{}
	m.mu.Unlock()

	m.store.Remove(ctx, snapshotKey)
	m.logger.Info("logged out")
}

// Snapshot returns a copy of the current authentication state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.state
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		s.CurrentUser = &u
	}
	if s.ErrorMessage != nil {
		msg := *s.ErrorMessage
		s.ErrorMessage = &msg
	}
	return s
}

// CurrentUser returns the logged-in user, or nil.
func (m *Manager) CurrentUser() *User {
	return m.Snapshot().CurrentUser
}
