package asana_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/config"
	"github.com/rush86999/atom-sub000/internal/server"
)

func newMockServerContext(t *testing.T) *server.ServerContext {
	t.Helper()

	cfg := config.Default()
	cfg.UseMock = true
	store := auth.NewStore(t.TempDir())
	manager := auth.NewManager(store, auth.NewGoogleProvider(cfg.Google))

	sc := server.NewServerContext(context.Background(), &cfg, manager, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterAsanaTools(t *testing.T) {
	sc := newMockServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := RegisterAsanaTools(s, sc, false); err != nil {
		t.Fatalf("RegisterAsanaTools() error = %v", err)
	}
}

func TestRegisterAsanaToolsReadOnly(t *testing.T) {
	sc := newMockServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := RegisterAsanaTools(s, sc, true); err != nil {
		t.Fatalf("RegisterAsanaTools() error = %v", err)
	}
}

func TestUseMockWithoutToken(t *testing.T) {
	sc := newMockServerContext(t)

	if !useMock(sc) {
		t.Error("expected mock mode without an Asana token")
	}
}
