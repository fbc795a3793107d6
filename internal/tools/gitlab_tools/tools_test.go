package gitlab_tools

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
	manager := auth.NewManager(store)

	sc := server.NewServerContext(context.Background(), &cfg, manager, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterGitLabTools(t *testing.T) {
	sc := newMockServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := RegisterGitLabTools(s, sc); err != nil {
		t.Fatalf("RegisterGitLabTools() error = %v", err)
	}
}

func TestUseMockWithoutToken(t *testing.T) {
	sc := newMockServerContext(t)

	if !useMock(sc) {
		t.Error("expected mock mode without a GitLab token")
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{"project_id": float64(42)}
	if got := intArg(args, "project_id", 0); got != 42 {
		t.Errorf("intArg() = %d, want 42", got)
	}
	if got := intArg(args, "pipeline_id", 0); got != 0 {
		t.Errorf("intArg() missing key = %d, want 0", got)
	}
}
