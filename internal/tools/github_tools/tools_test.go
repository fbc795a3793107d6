package github_tools

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
	manager := auth.NewManager(store, auth.NewGitHubProvider(cfg.GitHubApp))

	sc := server.NewServerContext(context.Background(), &cfg, manager, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterGitHubTools(t *testing.T) {
	sc := newMockServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := RegisterGitHubTools(s, sc, false); err != nil {
		t.Fatalf("RegisterGitHubTools() error = %v", err)
	}
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"present", map[string]interface{}{"limit": float64(10)}, 10},
		{"missing", map[string]interface{}{}, 30},
		{"zero", map[string]interface{}{"limit": float64(0)}, 30},
		{"negative", map[string]interface{}{"limit": float64(-5)}, 30},
		{"wrong type", map[string]interface{}{"limit": "10"}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intArg(tt.args, "limit", 30); got != tt.want {
				t.Errorf("intArg() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplitCommaList(t *testing.T) {
	got := splitCommaList("bug, help wanted ,,priority")
	want := []string{"bug", "help wanted", "priority"}

	if len(got) != len(want) {
		t.Fatalf("got %d labels, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}
}
