package auth

import (
	"testing"
	"time"
)

func TestStoreSaveLoad(t *testing.T) {
	s := NewStore(t.TempDir())

	tok := &Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}

	if err := s.Save("google", "work@example.com", tok); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load("google", "work@example.com")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.AccessToken != "access" {
		t.Errorf("Expected access token 'access', got %s", loaded.AccessToken)
	}
	if loaded.RefreshToken != "refresh" {
		t.Errorf("Expected refresh token 'refresh', got %s", loaded.RefreshToken)
	}
	if !loaded.Expiry.Equal(tok.Expiry) {
		t.Errorf("Expected expiry %v, got %v", tok.Expiry, loaded.Expiry)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Load("google", "nobody"); err == nil {
		t.Error("Expected error for missing token")
	}
}

func TestStoreHas(t *testing.T) {
	s := NewStore(t.TempDir())

	if s.Has("google", "default") {
		t.Error("Expected no token before Save")
	}

	if err := s.Save("google", "default", &Token{AccessToken: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !s.Has("google", "default") {
		t.Error("Expected token after Save")
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save("github", "default", &Token{AccessToken: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Delete("github", "default"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.Has("github", "default") {
		t.Error("Expected token gone after Delete")
	}

	// Deleting again is not an error
	if err := s.Delete("github", "default"); err != nil {
		t.Errorf("Deleting a missing token should not fail: %v", err)
	}
}

func TestStoreAccountsIsolated(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save("google", "work", &Token{AccessToken: "work-tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save("google", "personal", &Token{AccessToken: "personal-tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	work, err := s.Load("google", "work")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if work.AccessToken != "work-tok" {
		t.Errorf("Expected 'work-tok', got %s", work.AccessToken)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"default", "default"},
		{"user@example.com", "user@example.com"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"", "default"},
		{"a b/c", "a_b_c"},
	}

	for _, tt := range tests {
		if got := sanitize(tt.input); got != tt.expected {
			t.Errorf("sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
