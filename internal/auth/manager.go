package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/rush86999/atom-sub000/internal/logging"
)

// RefreshThreshold is how close to expiry a token may get before the
// manager refreshes it proactively.
const RefreshThreshold = 5 * time.Minute

// ErrNotConnected indicates no usable credential exists for the requested
// provider/account pair. Commands surface this as a disconnected status.
var ErrNotConnected = errors.New("not connected")

// Status describes the connection state for a provider/account pair.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusExpired      Status = "expired"
	StatusNotConnected Status = "not_connected"
)

// RefreshObserver is notified after each refresh attempt. result is
// "success" or "failure". Used to wire metrics without coupling this
// package to the instrumentation provider.
type RefreshObserver func(provider, result string)

// Manager hands out usable bearer tokens, refreshing them near expiry.
// Concurrent refreshes for the same provider/account pair are de-duplicated
// behind a per-key mutex: the first caller refreshes, the rest reuse the
// persisted result.
type Manager struct {
	store     *Store
	providers map[string]Provider
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	observer RefreshObserver
}

// NewManager creates a credential manager over the given store and providers.
func NewManager(store *Store, providers ...Provider) *Manager {
	m := &Manager{
		store:     store,
		providers: make(map[string]Provider, len(providers)),
		logger:    slog.Default(),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, p := range providers {
		m.providers[p.Name()] = p
	}
	return m
}

// SetRefreshObserver installs a callback invoked after refresh attempts.
func (m *Manager) SetRefreshObserver(obs RefreshObserver) {
	m.observer = obs
}

// Provider returns the registered provider with the given name.
func (m *Manager) Provider(name string) (Provider, bool) {
	p, ok := m.providers[name]
	return p, ok
}

// HasToken reports whether any token is stored for the provider/account.
func (m *Manager) HasToken(provider, account string) bool {
	return m.store.Has(provider, account)
}

// AccessToken returns a bearer token for the provider/account pair,
// refreshing it first when it expires within RefreshThreshold. Refresh
// failures and missing tokens are reported as ErrNotConnected.
func (m *Manager) AccessToken(ctx context.Context, provider, account string) (string, error) {
	p, ok := m.providers[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider %q", provider)
	}

	tok, err := m.store.Load(provider, account)
	if err != nil {
		return "", fmt.Errorf("%w: no %s token for account %q", ErrNotConnected, provider, account)
	}

	if !tok.ExpiresWithin(RefreshThreshold) {
		return tok.AccessToken, nil
	}

	lock := m.refreshLock(provider, account)
	lock.Lock()
	defer lock.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	tok, err = m.store.Load(provider, account)
	if err != nil {
		return "", fmt.Errorf("%w: no %s token for account %q", ErrNotConnected, provider, account)
	}
	if !tok.ExpiresWithin(RefreshThreshold) {
		return tok.AccessToken, nil
	}

	newTok, err := p.Refresh(ctx, tok)
	if err != nil {
		m.observe(provider, logging.StatusError)
		m.logger.Warn("token refresh failed",
			logging.Provider(provider),
			logging.UserHash(account),
			logging.Err(err),
		)
		return "", fmt.Errorf("%w: %s token refresh failed: %v", ErrNotConnected, provider, err)
	}
	m.observe(provider, logging.StatusSuccess)

	if err := m.store.Save(provider, account, newTok); err != nil {
		// The refreshed token is still usable this request.
		m.logger.Warn("failed to persist refreshed token",
			logging.Provider(provider),
			logging.UserHash(account),
			logging.Err(err),
		)
	}

	return newTok.AccessToken, nil
}

// Connect exchanges an authorization code and persists the resulting token.
func (m *Manager) Connect(ctx context.Context, provider, account, code string) error {
	p, ok := m.providers[provider]
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}

	tok, err := p.Exchange(ctx, code)
	if err != nil {
		return err
	}

	if err := m.store.Save(provider, account, tok); err != nil {
		return err
	}

	m.logger.Info("account connected",
		logging.Provider(provider),
		logging.UserHash(account),
	)
	return nil
}

// Disconnect removes the stored credential for the provider/account pair.
func (m *Manager) Disconnect(provider, account string) error {
	return m.store.Delete(provider, account)
}

// Status reports the connection state for a provider/account pair without
// triggering a refresh.
func (m *Manager) Status(provider, account string) Status {
	tok, err := m.store.Load(provider, account)
	if err != nil {
		return StatusNotConnected
	}
	if tok.ExpiresWithin(0) {
		// Possibly refreshable; the next AccessToken call will try to renew.
		return StatusExpired
	}
	return StatusConnected
}

// TokenSource adapts the manager to the oauth2.TokenSource interface for
// the google.golang.org/api client constructors.
func (m *Manager) TokenSource(ctx context.Context, provider, account string) oauth2.TokenSource {
	return &managerTokenSource{m: m, ctx: ctx, provider: provider, account: account}
}

type managerTokenSource struct {
	m        *Manager
	ctx      context.Context
	provider string
	account  string
}

func (ts *managerTokenSource) Token() (*oauth2.Token, error) {
	access, err := ts.m.AccessToken(ts.ctx, ts.provider, ts.account)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}

func (m *Manager) refreshLock(provider, account string) *sync.Mutex {
	key := provider + "/" + account

	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	m.locks[key] = l
	return l
}

func (m *Manager) observe(provider, result string) {
	if m.observer != nil {
		m.observer(provider, result)
	}
}
