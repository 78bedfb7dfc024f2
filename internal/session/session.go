// Package session owns the process-wide authentication state: which user, if
// any, is currently signed in.
//
// The manager persists every successful transition to the store before
// updating in-memory state and notifying subscribers, so a restart
// immediately after a call observes the same session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/directory"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
)

// sessionKey is the store key holding the active session's public user.
const sessionKey = "user"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers cannot tell the two apart, which keeps account enumeration off
	// the table.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionActive indicates a sign-in/sign-up attempt while another
	// user is signed in. Sign out first.
	ErrSessionActive = errors.New("a session is already active")
)

// Subscriber is notified after every session transition. A nil user means
// the session ended.
type Subscriber func(user *model.User)

// Manager is the auth session manager. States are Anonymous and
// Authenticated; transitions happen through SignIn, SignUp, SignOut and
// Restore.
type Manager struct {
	store  store.Store
	dir    *directory.Directory
	logger *slog.Logger

	// transMu serializes transitions end to end, so an overlapping
	// sign-in cannot slip past the active-session check while another
	// transition is still committing.
	transMu sync.Mutex

	mu      sync.RWMutex
	current *model.User
	subs    []Subscriber
}

// NewManager creates a Manager. The identity directory is a constructor
// dependency rather than ambient state.
func NewManager(st store.Store, dir *directory.Directory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  st,
		dir:    dir,
		logger: logger,
	}
}

// Subscribe registers a callback for session transitions. Not safe to call
// concurrently with transitions; wire subscribers during startup.
func (m *Manager) Subscribe(fn Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// notify invokes subscribers outside the manager lock.
func (m *Manager) notify(user *model.User) {
	m.mu.RLock()
	subs := make([]Subscriber, len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(user)
	}
}

// Current returns the signed-in user, or nil when anonymous.
func (m *Manager) Current() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// persist writes the public user as the saved session. The write happens
// before in-memory state changes so the durable record never lags behind
// what callers observe.
func (m *Manager) persist(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Set(ctx, sessionKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// SignIn authenticates against the identity directory and establishes the
// session. Unknown email and wrong password both fail with
// ErrInvalidCredentials.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	m.transMu.Lock()
	defer m.transMu.Unlock()

	if m.IsAuthenticated() {
		return nil, ErrSessionActive
	}

	ident, err := m.dir.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrIdentityNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, ident.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	user := ident.Public()
	if err := m.persist(ctx, user); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = user
	m.mu.Unlock()

	m.logger.Info("session_started", "user_id", user.ID)
	m.notify(user)

	u := *user
	return &u, nil
}

// SignUp registers a new account, hashes the credential, and establishes the
// session, same as SignIn. Fails with directory.ErrEmailExists when the
// email is taken.
func (m *Manager) SignUp(ctx context.Context, name, email, password string) (*model.User, error) {
	m.transMu.Lock()
	defer m.transMu.Unlock()

	if m.IsAuthenticated() {
		return nil, ErrSessionActive
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	ident := model.Identity{
		ID:           uuid.New().String(),
		Email:        directory.NormalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
	}

	if err := m.dir.Add(ctx, ident); err != nil {
		return nil, err
	}

	user := ident.Public()
	if err := m.persist(ctx, user); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = user
	m.mu.Unlock()

	m.logger.Info("account_registered", "user_id", user.ID)
	m.notify(user)

	u := *user
	return &u, nil
}

// SignOut clears the session in the store and in memory. Signing out while
// anonymous is harmless.
func (m *Manager) SignOut(ctx context.Context) error {
	m.transMu.Lock()
	defer m.transMu.Unlock()

	if err := m.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	m.mu.Lock()
	wasAuthenticated := m.current != nil
	m.current = nil
	m.mu.Unlock()

	if wasAuthenticated {
		m.logger.Info("session_ended")
		m.notify(nil)
	}
	return nil
}

// Restore adopts a previously saved session at startup without re-validating
// credentials (trust-on-reload). With no saved session the manager stays
// anonymous.
func (m *Manager) Restore(ctx context.Context) error {
	m.transMu.Lock()
	defer m.transMu.Unlock()

	raw, err := m.store.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read saved session: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return fmt.Errorf("failed to decode saved session: %w", err)
	}

	m.mu.Lock()
	m.current = &user
	m.mu.Unlock()

	m.logger.Info("session_restored", "user_id", user.ID)
	m.notify(&user)
	return nil
}
