package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/jeevandaan/website/pkg/cookie"
)

// Manager orchestrates the session life-cycle: token transport, persistence
// and expiry.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore sets a custom session store.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithTransport sets a custom session transport.
func WithTransport(transport Transport) Option {
	return func(m *Manager) { m.transport = transport }
}

// WithConfig sets custom configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.config = cfg }
}

// WithCookieManager enables the default signed-cookie transport.
func WithCookieManager(cookies *cookie.Manager) Option {
	return func(m *Manager) { m.cookieManager = cookies }
}

// New creates a session manager. Without an explicit store the in-memory
// store is used; without an explicit transport a cookie manager must be
// supplied for the default cookie transport.
func New(opts ...Option) *Manager {
	m := &Manager{config: DefaultConfig()}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			// Fail fast on misconfiguration rather than run without a transport.
			panic("session: cookie manager is required when using the default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies)
	}

	return m
}

// Ensure returns the request's session, creating a fresh anonymous one when
// none exists or the existing one is expired or invalid.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess, err := m.Get(ctx, r)
	if err == nil {
		sess.Touch()
		return sess, nil
	}
	_ = m.transport.ClearToken(w)

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	sess = NewSession(token, m.config.TTL)
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, sess.Token, m.config.TTL); err != nil {
		_ = m.store.Delete(ctx, sess.Token)
		return nil, err
	}

	return sess, nil
}

// Get retrieves an existing, unexpired session.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		return nil, ErrExpired
	}

	return sess, nil
}

// Save persists session mutations made during the request.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	return m.store.Update(ctx, sess)
}

// Destroy deletes the session and clears its cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}
	return m.transport.ClearToken(w)
}

// Close releases store resources when the store supports it.
func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// generateToken creates a cryptographically secure opaque token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
