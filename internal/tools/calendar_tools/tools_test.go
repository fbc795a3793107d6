package calendar_tools

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

func TestRegisterCalendarTools(t *testing.T) {
	sc := newMockServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := RegisterCalendarTools(s, sc, false); err != nil {
		t.Fatalf("RegisterCalendarTools() error = %v", err)
	}
}

func TestRegisterCalendarToolsReadOnly(t *testing.T) {
	sc := newMockServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := RegisterCalendarTools(s, sc, true); err != nil {
		t.Fatalf("RegisterCalendarTools() error = %v", err)
	}
}

func TestParseAttendees(t *testing.T) {
	got := parseAttendees("a@example.com, b@example.com,")
	if len(got) != 2 {
		t.Fatalf("got %d attendees, want 2", len(got))
	}
	if got[1] != "b@example.com" {
		t.Errorf("attendee = %q, want b@example.com", got[1])
	}

	if parseAttendees("") != nil {
		t.Error("expected nil for empty input")
	}
}
