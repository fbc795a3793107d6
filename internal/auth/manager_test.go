package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider counts refresh calls and can be made to fail.
type fakeProvider struct {
	name     string
	refreshes atomic.Int64
	fail      bool
	delay     time.Duration
}

func (p *fakeProvider) Name() string              { return p.name }
func (p *fakeProvider) AuthURL(state string) string { return "https://example.com/auth?state=" + state }

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, errors.New("empty code")
	}
	return &Token{
		AccessToken:  "exchanged-" + code,
		RefreshToken: "refresh-" + code,
		Expiry:       time.Now().Add(time.Hour),
	}, nil
}

func (p *fakeProvider) Refresh(ctx context.Context, tok *Token) (*Token, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	n := p.refreshes.Add(1)
	if p.fail {
		return nil, errors.New("provider unavailable")
	}
	return &Token{
		AccessToken:  fmt.Sprintf("refreshed-%d", n),
		RefreshToken: tok.RefreshToken,
		Expiry:       time.Now().Add(time.Hour),
	}, nil
}

func newTestManager(t *testing.T) (*Manager, *fakeProvider, *Store) {
	t.Helper()
	store := NewStore(t.TempDir())
	provider := &fakeProvider{name: "google"}
	return NewManager(store, provider), provider, store
}

func TestAccessTokenValid(t *testing.T) {
	m, p, store := newTestManager(t)

	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken:  "still-good",
		RefreshToken: "r",
		Expiry:       time.Now().Add(time.Hour),
	}))

	access, err := m.AccessToken(context.Background(), "google", "default")
	require.NoError(t, err)
	assert.Equal(t, "still-good", access)
	assert.EqualValues(t, 0, p.refreshes.Load(), "valid token must not trigger a refresh")
}

func TestAccessTokenRefreshesNearExpiry(t *testing.T) {
	m, p, store := newTestManager(t)

	// Within the 5 minute threshold
	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken:  "stale",
		RefreshToken: "r",
		Expiry:       time.Now().Add(time.Minute),
	}))

	access, err := m.AccessToken(context.Background(), "google", "default")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-1", access)
	assert.EqualValues(t, 1, p.refreshes.Load())

	// The refreshed token was persisted
	saved, err := store.Load("google", "default")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-1", saved.AccessToken)
}

func TestAccessTokenMissing(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.AccessToken(context.Background(), "google", "default")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestAccessTokenRefreshFailure(t *testing.T) {
	m, p, store := newTestManager(t)
	p.fail = true

	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken:  "stale",
		RefreshToken: "r",
		Expiry:       time.Now().Add(-time.Minute),
	}))

	_, err := m.AccessToken(context.Background(), "google", "default")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestAccessTokenUnknownProvider(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.AccessToken(context.Background(), "asana", "default")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConnected)
}

func TestConcurrentRefreshDeduplicated(t *testing.T) {
	m, p, store := newTestManager(t)
	p.delay = 20 * time.Millisecond

	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken:  "stale",
		RefreshToken: "r",
		Expiry:       time.Now().Add(-time.Minute),
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			access, err := m.AccessToken(context.Background(), "google", "default")
			assert.NoError(t, err)
			assert.Equal(t, "refreshed-1", access)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, p.refreshes.Load(),
		"concurrent callers must share one refresh")
}

func TestConnectAndDisconnect(t *testing.T) {
	m, _, store := newTestManager(t)

	require.NoError(t, m.Connect(context.Background(), "google", "default", "code123"))
	assert.True(t, store.Has("google", "default"))

	tok, err := store.Load("google", "default")
	require.NoError(t, err)
	assert.Equal(t, "exchanged-code123", tok.AccessToken)

	require.NoError(t, m.Disconnect("google", "default"))
	assert.False(t, store.Has("google", "default"))
}

func TestStatus(t *testing.T) {
	m, _, store := newTestManager(t)

	assert.Equal(t, StatusNotConnected, m.Status("google", "default"))

	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken: "x",
		Expiry:      time.Now().Add(time.Hour),
	}))
	assert.Equal(t, StatusConnected, m.Status("google", "default"))

	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken: "x",
		Expiry:      time.Now().Add(-time.Hour),
	}))
	assert.Equal(t, StatusExpired, m.Status("google", "default"))
}

func TestRefreshObserver(t *testing.T) {
	m, _, store := newTestManager(t)

	var results []string
	m.SetRefreshObserver(func(provider, result string) {
		results = append(results, provider+":"+result)
	})

	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken:  "stale",
		RefreshToken: "r",
		Expiry:       time.Now().Add(-time.Minute),
	}))

	_, err := m.AccessToken(context.Background(), "google", "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"google:success"}, results)
}

func TestTokenExpiresWithin(t *testing.T) {
	tests := []struct {
		name      string
		expiry    time.Time
		threshold time.Duration
		expected  bool
	}{
		{"zero expiry never expires", time.Time{}, time.Minute, false},
		{"far future", time.Now().Add(time.Hour), 5 * time.Minute, false},
		{"already expired", time.Now().Add(-time.Minute), 0, true},
		{"within threshold", time.Now().Add(time.Minute), 5 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &Token{Expiry: tt.expiry}
			assert.Equal(t, tt.expected, tok.ExpiresWithin(tt.threshold))
		})
	}
}

func TestTokenSource(t *testing.T) {
	m, _, store := newTestManager(t)

	require.NoError(t, store.Save("google", "default", &Token{
		AccessToken: "bearer-me",
		Expiry:      time.Now().Add(time.Hour),
	}))

	ts := m.TokenSource(context.Background(), "google", "default")
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "bearer-me", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
}
