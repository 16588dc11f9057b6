package session

import (
	"context"
	"encoding/json"
	"sync"

	"taskflow/internal/api"
	"taskflow/internal/model"

	log "github.com/sirupsen/logrus"
)

// Storage keys. Both must be present for a session to be restorable;
// partial presence is treated as no session.
const (
	keyToken = "token"
	keyUser  = "user"
)

// Session holds the authentication token and the identity it was issued for.
type Session struct {
	Token string
	User  model.User
}

// Manager owns the current session. It is the token provider for the API
// gateway and the only writer of the credential store.
type Manager struct {
	mu      sync.RWMutex
	creds   CredentialStore
	gateway *api.Client
	current *Session
}

func NewManager(creds CredentialStore) *Manager {
	return &Manager{creds: creds}
}

// SetGateway wires the API client used for login and register. The gateway
// itself is constructed with this manager's Token as its provider, so the
// two are attached after construction.
func (m *Manager) SetGateway(c *api.Client) {
	m.gateway = c
}

// Token returns the current session's token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Current returns a copy of the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	creds, err := m.gateway.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return m.establish(creds), nil
}

func (m *Manager) Register(ctx context.Context, username, email, password string) (*Session, error) {
	creds, err := m.gateway.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	return m.establish(creds), nil
}

func (m *Manager) establish(creds *api.Credentials) *Session {
	s := &Session{Token: creds.Token, User: creds.User}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	if err := m.persist(s); err != nil {
		log.WithError(err).Warn("session: failed to persist credentials")
	}

	copied := *s
	return &copied
}

func (m *Manager) persist(s *Session) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	if err := m.creds.Set(keyToken, s.Token); err != nil {
		return err
	}
	return m.creds.Set(keyUser, string(userJSON))
}

// Restore reconstructs a session from durable storage without validating the
// token; validation happens lazily on the first authorized call. Returns nil
// when either entry is missing or unreadable.
func (m *Manager) Restore() *Session {
	token, ok, err := m.creds.Get(keyToken)
	if err != nil || !ok {
		return nil
	}
	userJSON, ok, err := m.creds.Get(keyUser)
	if err != nil || !ok {
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		log.WithError(err).Warn("session: stored user entry is corrupt")
		return nil
	}

	s := &Session{Token: token, User: user}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	copied := *s
	return &copied
}

// Logout clears the durable entries and the in-memory session. Discarding
// cached board state is the caller's responsibility.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.creds.Delete(keyToken); err != nil {
		return err
	}
	return m.creds.Delete(keyUser)
}
