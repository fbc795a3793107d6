package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for optional settings.
const (
	DefaultGmailRequestsPerSecond = 5
	DefaultGmailBurst             = 5
	DefaultBackendTimeout         = 30 * time.Second
	DefaultBackendURL             = "http://localhost:8004"
)

// OAuthApp holds the OAuth client registration for one identity provider.
type OAuthApp struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

// Configured reports whether the app registration is usable.
func (a OAuthApp) Configured() bool {
	return a.ClientID != "" && a.ClientSecret != ""
}

// ServiceConfig holds the settings for one REST-backed service.
type ServiceConfig struct {
	// BaseURL overrides the service's default API endpoint. Mainly useful
	// for self-hosted GitLab/GitHub Enterprise and for tests.
	BaseURL string `yaml:"base_url"`

	// Token is a static personal access token. When set it takes
	// precedence over OAuth-issued tokens for that service.
	Token string `yaml:"token"`
}

// BackendConfig holds settings for the local backend process commands are
// forwarded to.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RateLimitConfig bounds outbound request rates.
type RateLimitConfig struct {
	// GmailRequestsPerSecond caps Gmail API calls per account.
	GmailRequestsPerSecond float64 `yaml:"gmail_requests_per_second"`
	GmailBurst             int     `yaml:"gmail_burst"`
}

// Config is the full configuration for the command server.
type Config struct {
	Google    OAuthApp `yaml:"google"`
	Microsoft OAuthApp `yaml:"microsoft"`
	GitHubApp OAuthApp `yaml:"github_app"`

	Asana  ServiceConfig `yaml:"asana"`
	GitHub ServiceConfig `yaml:"github"`
	GitLab ServiceConfig `yaml:"gitlab"`

	Backend   BackendConfig   `yaml:"backend"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// UseMock serves generated fixture data for every command instead of
	// calling out to the real APIs. Commands also fall back to mock data
	// individually when their service has no credentials.
	UseMock bool `yaml:"use_mock"`
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: DefaultBackendURL,
			Timeout: DefaultBackendTimeout,
		},
		RateLimit: RateLimitConfig{
			GmailRequestsPerSecond: DefaultGmailRequestsPerSecond,
			GmailBurst:             DefaultGmailBurst,
		},
	}
}

// Load reads configuration from an optional YAML file and applies
// environment variable overrides. A missing file is not an error; env vars
// alone are enough to run.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = DefaultBackendTimeout
	}
	if cfg.RateLimit.GmailRequestsPerSecond <= 0 {
		cfg.RateLimit.GmailRequestsPerSecond = DefaultGmailRequestsPerSecond
	}
	if cfg.RateLimit.GmailBurst <= 0 {
		cfg.RateLimit.GmailBurst = DefaultGmailBurst
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	setEnvString(&c.Google.ClientID, "GOOGLE_CLIENT_ID")
	setEnvString(&c.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setEnvString(&c.Google.RedirectURI, "GOOGLE_REDIRECT_URI")

	setEnvString(&c.Microsoft.ClientID, "MSFT_CLIENT_ID")
	setEnvString(&c.Microsoft.ClientSecret, "MSFT_CLIENT_SECRET")
	setEnvString(&c.Microsoft.RedirectURI, "MSFT_REDIRECT_URI")

	setEnvString(&c.GitHubApp.ClientID, "GITHUB_CLIENT_ID")
	setEnvString(&c.GitHubApp.ClientSecret, "GITHUB_CLIENT_SECRET")
	setEnvString(&c.GitHubApp.RedirectURI, "GITHUB_REDIRECT_URI")

	setEnvString(&c.Asana.Token, "ASANA_ACCESS_TOKEN")
	setEnvString(&c.Asana.BaseURL, "ASANA_BASE_URL")
	setEnvString(&c.GitHub.Token, "GITHUB_TOKEN")
	setEnvString(&c.GitHub.BaseURL, "GITHUB_BASE_URL")
	setEnvString(&c.GitLab.Token, "GITLAB_TOKEN")
	setEnvString(&c.GitLab.BaseURL, "GITLAB_BASE_URL")

	setEnvString(&c.Backend.BaseURL, "BACKEND_BASE_URL")
	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backend.Timeout = d
		}
	}

	if v := os.Getenv("USE_MOCK"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.UseMock = parsed
		}
	}

	if v := os.Getenv("GMAIL_REQUESTS_PER_SECOND"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.RateLimit.GmailRequestsPerSecond = parsed
		}
	}
}

func setEnvString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
