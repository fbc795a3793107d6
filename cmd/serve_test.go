package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/config"
	"github.com/rush86999/atom-sub000/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()

	cfg := config.Default()
	cfg.UseMock = true
	store := auth.NewStore(t.TempDir())
	manager := auth.NewManager(store,
		auth.NewGoogleProvider(cfg.Google),
		auth.NewMicrosoftProvider(cfg.Microsoft),
		auth.NewGitHubProvider(cfg.GitHubApp),
	)

	sc := server.NewServerContext(context.Background(), &cfg, manager, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterAllTools(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := registerAllTools(s, sc, false); err != nil {
		t.Fatalf("registerAllTools() error = %v", err)
	}
}

func TestRegisterAllToolsReadOnly(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := registerAllTools(s, sc, true); err != nil {
		t.Fatalf("registerAllTools() error = %v", err)
	}
}
