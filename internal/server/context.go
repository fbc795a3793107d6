package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rush86999/atom-sub000/internal/asana"
	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/backend"
	"github.com/rush86999/atom-sub000/internal/calendar"
	"github.com/rush86999/atom-sub000/internal/config"
	"github.com/rush86999/atom-sub000/internal/drive"
	"github.com/rush86999/atom-sub000/internal/gitlab"
	"github.com/rush86999/atom-sub000/internal/githubapi"
	"github.com/rush86999/atom-sub000/internal/gmail"
	"github.com/rush86999/atom-sub000/internal/instrumentation"
	"github.com/rush86999/atom-sub000/internal/logging"
	"github.com/rush86999/atom-sub000/internal/mock"
	"github.com/rush86999/atom-sub000/internal/outlook"
	"github.com/rush86999/atom-sub000/internal/ratelimit"
)

// ServerContext holds shared state for the command server: configuration,
// credentials, cached service clients, and instrumentation. Handlers run
// concurrently; the client caches are guarded by one RWMutex.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	config  *config.Config
	auth    *auth.Manager
	mock    *mock.Provider
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger

	// Per-account Google clients
	gmailClients    map[string]*gmail.Client
	calendarClients map[string]*calendar.Client
	driveClients    map[string]*drive.Client

	// Per-account Outlook clients
	outlookClients map[string]*outlook.Client

	// Gmail rate limiters, one per account
	gmailLimiters *ratelimit.PerKey

	// Token-configured singletons
	asanaClient   *asana.Client
	githubClient  *githubapi.Client
	gitlabClient  *gitlab.Client
	backendClient *backend.Client

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context from the loaded
// configuration. Service clients are created lazily on first use.
func NewServerContext(ctx context.Context, cfg *config.Config, manager *auth.Manager, logger *slog.Logger) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}

	sc := &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		config:          cfg,
		auth:            manager,
		mock:            mock.New(),
		logger:          logger,
		gmailClients:    make(map[string]*gmail.Client),
		calendarClients: make(map[string]*calendar.Client),
		driveClients:    make(map[string]*drive.Client),
		outlookClients:  make(map[string]*outlook.Client),
		gmailLimiters:   ratelimit.NewPerKey(cfg.RateLimit.GmailRequestsPerSecond, cfg.RateLimit.GmailBurst),
		backendClient:   backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, nil),
	}

	if cfg.Asana.Token != "" {
		sc.asanaClient = asana.NewClient(cfg.Asana.BaseURL, cfg.Asana.Token, nil)
	}
	if cfg.GitHub.Token != "" {
		sc.githubClient = githubapi.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, nil)
	}
	if cfg.GitLab.Token != "" {
		sc.gitlabClient = gitlab.NewClient(cfg.GitLab.BaseURL, cfg.GitLab.Token, nil)
	}

	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.config
}

// Auth returns the credential manager.
func (sc *ServerContext) Auth() *auth.Manager {
	return sc.auth
}

// Mock returns the fixture data provider.
func (sc *ServerContext) Mock() *mock.Provider {
	return sc.mock
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// UseMock reports whether commands should serve mock data instead of
// calling real services.
func (sc *ServerContext) UseMock() bool {
	return sc.config.UseMock
}

// SetMetrics installs the metrics recorder. Safe to leave unset; handlers
// treat a nil recorder as a no-op.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m

	if m != nil {
		sc.gmailLimiters.SetOnThrottle(func() {
			m.RecordRateLimitThrottle(sc.ctx, instrumentation.ServiceGmail)
		})
	}
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger installs the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.audit = al
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// AsanaClient returns the Asana client, or nil when no token is configured.
func (sc *ServerContext) AsanaClient() *asana.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.asanaClient
}

// GitHubClient returns the GitHub client, or nil when no token is configured.
func (sc *ServerContext) GitHubClient() *githubapi.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.githubClient
}

// GitLabClient returns the GitLab client, or nil when no token is configured.
func (sc *ServerContext) GitLabClient() *gitlab.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.gitlabClient
}

// BackendClient returns the local backend forwarder.
func (sc *ServerContext) BackendClient() *backend.Client {
	return sc.backendClient
}

// GmailClientForAccount returns the Gmail client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[account]; ok {
		return client
	}

	if !sc.auth.HasToken(auth.ProviderGoogle, account) {
		return nil
	}

	client, err := gmail.NewClientForAccount(sc.ctx, sc.auth, account, sc.gmailLimiters.Get(account))
	if err != nil {
		sc.logger.Warn("failed to create Gmail client",
			logging.UserHash(account),
			logging.Err(err),
		)
		return nil
	}

	sc.gmailClients[account] = client
	return client
}

// CalendarClientForAccount returns the Calendar client for a specific
// account, creating it on first use. Returns nil if the account has no
// token.
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	if !sc.auth.HasToken(auth.ProviderGoogle, account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, sc.auth, account)
	if err != nil {
		sc.logger.Warn("failed to create Calendar client",
			logging.UserHash(account),
			logging.Err(err),
		)
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// DriveClientForAccount returns the Drive client for a specific account,
// creating it on first use. Returns nil if the account has no token.
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.driveClients[account]; ok {
		return client
	}

	if !sc.auth.HasToken(auth.ProviderGoogle, account) {
		return nil
	}

	client, err := drive.NewClientForAccount(sc.ctx, sc.auth, account)
	if err != nil {
		sc.logger.Warn("failed to create Drive client",
			logging.UserHash(account),
			logging.Err(err),
		)
		return nil
	}

	sc.driveClients[account] = client
	return client
}

// OutlookClientForAccount returns the Outlook client for a specific
// account, creating it on first use. Returns nil if the account has no
// token.
func (sc *ServerContext) OutlookClientForAccount(account string) *outlook.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.outlookClients[account]; ok {
		return client
	}

	if !sc.auth.HasToken(auth.ProviderMicrosoft, account) {
		return nil
	}

	client := outlook.NewClient("", func(ctx context.Context) (string, error) {
		return sc.auth.AccessToken(ctx, auth.ProviderMicrosoft, account)
	}, nil)

	sc.outlookClients[account] = client
	return client
}

// InvalidateAccount drops cached clients for an account after a disconnect
// so stale credentials cannot be reused.
func (sc *ServerContext) InvalidateAccount(account string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.gmailClients, account)
	delete(sc.calendarClients, account)
	delete(sc.driveClients, account)
	delete(sc.outlookClients, account)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.gmailLimiters.Stop()
	sc.cancel()
	return nil
}
