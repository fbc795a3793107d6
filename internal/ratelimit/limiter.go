package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrBurstExceeded is returned when a single request can never be satisfied
// by the configured burst size.
var ErrBurstExceeded = errors.New("ratelimit: request exceeds limiter burst")

// Limiter bounds the outbound request rate for a single API client.
//
// Callers invoke Wait before issuing a request. Waits are serialized through
// reservations, so a burst of concurrent callers each consume a distinct
// slot instead of all observing the same pre-increment count and sleeping
// the same duration.
type Limiter struct {
	lim *rate.Limiter

	mu         sync.Mutex
	onThrottle func()
}

// New creates a limiter allowing requestsPerSecond sustained throughput with
// the given burst size. A burst below 1 is raised to 1 so Wait can ever
// succeed.
func New(requestsPerSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		lim: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// SetOnThrottle installs a callback invoked each time Wait has to block.
// Used to feed throttle metrics.
func (l *Limiter) SetOnThrottle(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onThrottle = fn
}

// Wait blocks until the caller may issue a request or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	r := l.lim.Reserve()
	if !r.OK() {
		return ErrBurstExceeded
	}

	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	l.mu.Lock()
	fn := l.onThrottle
	l.mu.Unlock()
	if fn != nil {
		fn()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Allow reports whether a request may be issued immediately without waiting.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}

// keyedLimiter pairs a limiter with its last access time for cleanup.
type keyedLimiter struct {
	limiter    *Limiter
	lastAccess time.Time
}

// PerKey manages one Limiter per key (typically per account). Limiters for
// keys that have been idle longer than the TTL are dropped by a background
// cleanup goroutine.
type PerKey struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter

	rps        float64
	burst      int
	ttl        time.Duration
	onThrottle func()

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewPerKey creates a per-key limiter set. Each key gets an independent
// limiter with the given rate and burst.
func NewPerKey(requestsPerSecond float64, burst int) *PerKey {
	pk := &PerKey{
		limiters: make(map[string]*keyedLimiter),
		rps:      requestsPerSecond,
		burst:    burst,
		ttl:      10 * time.Minute,
		stopCh:   make(chan struct{}),
	}

	go pk.cleanupLoop(5 * time.Minute)

	return pk
}

// Get returns the limiter for the given key, creating it on first use.
func (pk *PerKey) Get(key string) *Limiter {
	pk.mu.Lock()
	defer pk.mu.Unlock()

	if kl, ok := pk.limiters[key]; ok {
		kl.lastAccess = time.Now()
		return kl.limiter
	}

	kl := &keyedLimiter{
		limiter:    New(pk.rps, pk.burst),
		lastAccess: time.Now(),
	}
	if pk.onThrottle != nil {
		kl.limiter.SetOnThrottle(pk.onThrottle)
	}
	pk.limiters[key] = kl
	return kl.limiter
}

// SetOnThrottle installs a callback on every current and future limiter,
// invoked each time a Wait has to block.
func (pk *PerKey) SetOnThrottle(fn func()) {
	pk.mu.Lock()
	defer pk.mu.Unlock()
	pk.onThrottle = fn
	for _, kl := range pk.limiters {
		kl.limiter.SetOnThrottle(fn)
	}
}

// Len returns the number of tracked keys. For tests and metrics.
func (pk *PerKey) Len() int {
	pk.mu.Lock()
	defer pk.mu.Unlock()
	return len(pk.limiters)
}

// Stop terminates the cleanup goroutine.
func (pk *PerKey) Stop() {
	pk.stopOnce.Do(func() {
		close(pk.stopCh)
	})
}

func (pk *PerKey) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pk.cleanup()
		case <-pk.stopCh:
			return
		}
	}
}

// cleanup drops limiters that have been idle longer than the TTL.
func (pk *PerKey) cleanup() {
	now := time.Now()

	pk.mu.Lock()
	for key, kl := range pk.limiters {
		if now.Sub(kl.lastAccess) > pk.ttl {
			delete(pk.limiters, key)
		}
	}
	pk.mu.Unlock()
}
