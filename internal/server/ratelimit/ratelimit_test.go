package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrozenLimiter(cfg *Config, at time.Time) *Limiter {
	l := NewLimiter(cfg)
	l.now = func() time.Time { return at }
	return l
}

func TestLimiter_Allow(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	l := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute}, now)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/recommend", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/recommend", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
	assert.WithinDuration(t, now.Add(time.Minute), info.ResetTime, time.Millisecond)
}

func TestLimiter_Refill(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	l := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 1}, now)
	defer l.Stop()

	allowed, _ := l.Allow("c", "/x", "GET")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/x", "GET")
	require.False(t, allowed)

	l.now = func() time.Time { return now.Add(time.Second) }
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_SeparateClients(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer l.Stop()

	allowed, _ := l.Allow("a", "/recommend", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("b", "/recommend", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/recommend", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, Whitelist: map[string]bool{"127.0.0.1": true}})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("127.0.0.1", "/recommend", "POST")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/recommend", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer l.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l := NewLimiter(NewConfig(true, 1000, 100))
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("c", "/auth/signup", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
	}
	allowed, _ := l.Allow("c", "/auth/signup", "POST")
	assert.False(t, allowed, "burst of 3 exhausted")

	allowed, info := l.Allow("c", "/internships", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_DefaultBudgetSpansPaths(t *testing.T) {
	l := NewLimiter(NewConfig(true, 2, 2))
	defer l.Stop()

	allowedCount := 0
	for i := 0; i < 200; i++ {
		if ok, _ := l.Allow("10.0.0.1", fmt.Sprintf("/internships/%d", i), "GET"); ok {
			allowedCount++
		}
	}
	assert.Equal(t, 2, allowedCount)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/recommend", "POST"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), allowedCount.Load())
}

func TestLimiter_CleanupIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	l := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute, IdleTTL: time.Minute}, now)
	defer l.Stop()

	l.Allow("old", "/x", "GET")
	l.now = func() time.Time { return now.Add(2 * time.Minute) }
	l.Allow("fresh", "/x", "GET")

	l.cleanupBuckets()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "fresh:default")
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Stop()
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/auth/login", Method: "POST", Limit: 10},
		{Path: "/me/", Method: "PUT", Limit: 20},
	}

	assert.Equal(t, 10, MatchEndpoint("/auth/login", "POST", configs).Limit)
	assert.Equal(t, 20, MatchEndpoint("/me/profile", "PUT", configs).Limit)
	assert.Nil(t, MatchEndpoint("/auth/login", "GET", configs))
	assert.Nil(t, MatchEndpoint("/recommend", "POST", configs))
	assert.Equal(t, 0, MatchEndpoint("/health", "GET", configs).Limit)
}
