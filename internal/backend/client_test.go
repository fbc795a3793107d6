package backend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/command" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Command != "sync_notes" {
			t.Errorf("expected command 'sync_notes', got %q", req.Command)
		}
		if _, err := uuid.Parse(req.ID); err != nil {
			t.Errorf("expected request ID to be a UUID, got %q", req.ID)
		}
		if string(req.Params) != `{"folder":"inbox"}` {
			t.Errorf("unexpected params %s", req.Params)
		}

		w.Write([]byte(`{"synced":3}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, srv.Client())

	result, err := client.Forward(t.Context(), "sync_notes", json.RawMessage(`{"folder":"inbox"}`))
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if string(result) != `{"synced":3}` {
		t.Errorf("unexpected result %s", result)
	}
}

func TestForwardNilParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if string(req.Params) != "{}" {
			t.Errorf("expected empty object params, got %s", req.Params)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, srv.Client())

	if _, err := client.Forward(t.Context(), "ping", nil); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
}

func TestForwardError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, srv.Client())

	_, err := client.Forward(t.Context(), "ping", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected error to mention status 502, got: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("expected path /healthz, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, srv.Client())

	if err := client.Health(t.Context()); err != nil {
		t.Fatalf("Health failed: %v", err)
	}
}

func TestHealthDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, srv.Client())

	if err := client.Health(t.Context()); err == nil {
		t.Fatal("expected error for unhealthy backend")
	}
}
