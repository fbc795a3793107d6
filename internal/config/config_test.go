package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, DefaultBackendTimeout, cfg.Backend.Timeout)
	assert.Equal(t, float64(DefaultGmailRequestsPerSecond), cfg.RateLimit.GmailRequestsPerSecond)
	assert.False(t, cfg.UseMock)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.BaseURL)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
google:
  client_id: gid
  client_secret: gsecret
  redirect_uri: urn:ietf:wg:oauth:2.0:oob
asana:
  token: asana-pat
gitlab:
  base_url: https://gitlab.example.com/api/v4
backend:
  base_url: http://localhost:9999
  timeout: 5s
use_mock: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gid", cfg.Google.ClientID)
	assert.True(t, cfg.Google.Configured())
	assert.Equal(t, "asana-pat", cfg.Asana.Token)
	assert.Equal(t, "https://gitlab.example.com/api/v4", cfg.GitLab.BaseURL)
	assert.Equal(t, "http://localhost:9999", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.UseMock)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("google: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "env-gid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-gsecret")
	t.Setenv("ASANA_ACCESS_TOKEN", "env-asana")
	t.Setenv("BACKEND_BASE_URL", "http://localhost:1234")
	t.Setenv("USE_MOCK", "true")
	t.Setenv("GMAIL_REQUESTS_PER_SECOND", "2.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-gid", cfg.Google.ClientID)
	assert.Equal(t, "env-asana", cfg.Asana.Token)
	assert.Equal(t, "http://localhost:1234", cfg.Backend.BaseURL)
	assert.True(t, cfg.UseMock)
	assert.Equal(t, 2.5, cfg.RateLimit.GmailRequestsPerSecond)
}

func TestOAuthAppConfigured(t *testing.T) {
	assert.False(t, OAuthApp{}.Configured())
	assert.False(t, OAuthApp{ClientID: "id"}.Configured())
	assert.True(t, OAuthApp{ClientID: "id", ClientSecret: "secret"}.Configured())
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("USE_MOCK", "not-a-bool")
	t.Setenv("GMAIL_REQUESTS_PER_SECOND", "-3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.UseMock)
	assert.Equal(t, float64(DefaultGmailRequestsPerSecond), cfg.RateLimit.GmailRequestsPerSecond)
}
