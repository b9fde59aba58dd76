package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Prompt passed to the token client for interactive sign-in.
const Prompt = "select_account"

// Manager owns the sign-in state for a single client instance. It is the only thing
// that mutates the session: consumers read the authentication flag through Authenticated
// or Subscribe and obtain the credential through Token (Manager is an oauth2.TokenSource).
type Manager struct {
	provider Provider
	seed     *oauth2.Token
	flight   singleflight.Group
	watchers watchers

	mu            sync.Mutex
	ctx           context.Context
	initialized   bool
	client        TokenClient
	token         *oauth2.Token
	source        oauth2.TokenSource
	authenticated bool
	pending       chan result
}

type Option func(*Manager)

type result struct {
	token *oauth2.Token
	err   error
}

// WithCredential seeds the session with an existing credential (e.g. a configured refresh
// token). The session is marked authenticated by Initialize if the credential is usable.
func WithCredential(token *oauth2.Token) Option {
	return func(m *Manager) {
		m.seed = token
	}
}

func NewManager(provider Provider, options ...Option) *Manager {
	m := Manager{
		provider: provider,
		ctx:      context.Background(),
	}

	for _, opt := range options {
		opt(&m)
	}

	return &m
}

// Initialize loads the identity provider and registers the token callback. It is idempotent:
// once initialized it only re-evaluates the held credential.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.setAuthenticated(usable(m.token))
		m.mu.Unlock()

		slog.Debug("identity provider already initialized", "authenticated", m.Authenticated())
		return nil
	}
	m.mu.Unlock()

	_, err, _ := m.flight.Do("initialize", func() (any, error) {
		return nil, m.initialize(ctx)
	})

	return err
}

func (m *Manager) initialize(ctx context.Context) error {
	m.mu.Lock()
	done := m.initialized
	m.mu.Unlock()

	if done {
		return nil
	}

	if err := m.provider.Load(ctx); err != nil {
		return &InitializationError{Err: err}
	}

	client, err := m.provider.InitTokenClient(m.callback)
	if err != nil {
		return &InitializationError{Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ctx = context.WithoutCancel(ctx)
	m.client = client
	m.initialized = true

	if usable(m.seed) {
		m.commit(m.seed)
	}

	slog.Info("identity provider initialized", "authenticated", m.authenticated)

	return nil
}

// SignIn prompts for a credential and blocks until the token callback fires. Concurrent
// callers share the single in-flight request. Cancelling ctx abandons the wait but not the
// request: a credential that arrives later is still committed to the session.
func (m *Manager) SignIn(ctx context.Context) error {
	m.mu.Lock()
	initialized := m.initialized
	m.mu.Unlock()

	if !initialized {
		return ErrNotInitialized
	}

	ch := m.flight.DoChan("sign-in", func() (any, error) {
		return nil, m.signIn(context.WithoutCancel(ctx))
	})

	select {
	case rs := <-ch:
		if rs.Shared {
			slog.Debug("joined in-flight sign-in")
		}
		return rs.Err

	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) signIn(ctx context.Context) error {
	pending := make(chan result, 1)

	m.mu.Lock()
	m.pending = pending
	client := m.client
	m.mu.Unlock()

	slog.Info("requesting access token")

	if err := client.RequestAccessToken(ctx, Prompt); err != nil {
		m.mu.Lock()
		if m.pending == pending {
			m.pending = nil
		}
		m.mu.Unlock()

		return &SignInError{Reason: "token request failed", Err: err}
	}

	rs := <-pending
	if rs.err != nil {
		return &SignInError{Reason: reason(rs.err), Err: rs.err}
	}

	slog.Info("sign-in successful")

	return nil
}

// callback is registered with the provider and receives every token request outcome.
func (m *Manager) callback(token *oauth2.Token, err error) {
	if err == nil && !usable(token) {
		err = &ProviderError{Code: "invalid_token", Description: "no access token in response"}
	}

	m.mu.Lock()
	pending := m.pending
	m.pending = nil

	if err == nil {
		m.commit(token)
	}
	m.mu.Unlock()

	if err != nil {
		slog.Warn("token request failed", "error", err)
	} else {
		slog.Debug("access token acquired", "expiry", token.Expiry)
	}

	if pending != nil {
		pending <- result{token: token, err: err}
	}
}

// SignOut revokes the held credential, if any, and leaves the session unauthenticated.
// Revocation is best effort: errors are logged and never returned.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.token = nil
	m.source = nil
	m.setAuthenticated(false)
	m.mu.Unlock()

	if token == nil {
		slog.Info("no credential to revoke")
		return
	}

	if err := m.provider.Revoke(ctx, token); err != nil {
		slog.Warn("credential revocation failed", "error", err)
		return
	}

	slog.Info("signed out")
}

// Invalidate drops the held credential after the remote service has rejected it.
func (m *Manager) Invalidate(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil && !m.authenticated {
		return
	}

	m.token = nil
	m.source = nil
	m.setAuthenticated(false)

	slog.Warn("session invalidated", "reason", reason)
}

// Authenticated returns the latest committed authentication state.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.authenticated
}

// Subscribe returns a channel that receives the current authentication state followed
// by every subsequent transition, in the order the transitions occurred. The cancel
// function unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan bool, func()) {
	m.mu.Lock()
	w := m.watchers.add(m.authenticated)
	m.mu.Unlock()

	return w.out, func() {
		m.watchers.remove(w)
	}
}

// Token implements oauth2.TokenSource. A credential that cannot be refreshed invalidates
// the session.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.Lock()
	source := m.source
	m.mu.Unlock()

	if source == nil {
		return nil, ErrNotAuthenticated
	}

	token, err := source.Token()
	if err != nil {
		m.mu.Lock()
		stale := m.source == source
		m.mu.Unlock()

		if stale {
			m.Invalidate("credential refresh failed")
		}

		return nil, errors.Wrap(err, "refresh access token")
	}

	m.mu.Lock()
	if m.source == source {
		m.token = token
	}
	m.mu.Unlock()

	return token, nil
}

// Close unsubscribes all watchers.
func (m *Manager) Close() {
	m.watchers.closeAll()
}

// commit stores an acquired credential. Caller must hold m.mu.
func (m *Manager) commit(token *oauth2.Token) {
	m.token = token
	m.source = m.provider.TokenSource(m.ctx, token)
	m.setAuthenticated(true)
}

// setAuthenticated publishes only real transitions. Caller must hold m.mu.
func (m *Manager) setAuthenticated(v bool) {
	if m.authenticated == v {
		return
	}

	m.authenticated = v
	m.watchers.publish(v)
}

func usable(token *oauth2.Token) bool {
	return token != nil && (token.Valid() || token.RefreshToken != "")
}
