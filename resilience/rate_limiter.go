package resilience

import (
	"sync"
	"time"
)

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Rate is the number of tokens added per second.
	Rate float64
	// Burst is the bucket capacity.
	Burst int
}

// RateLimiter is a token bucket.
type RateLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter returns a full bucket.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return newRateLimiter(cfg, time.Now)
}

func newRateLimiter(cfg RateLimiterConfig, now func() time.Time) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.Rate))
	}
	return &RateLimiter{cfg: cfg, now: now, tokens: float64(cfg.Burst), lastRefill: now()}
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.cfg.Rate
	rl.lastRefill = now
	if rl.tokens > float64(rl.cfg.Burst) {
		rl.tokens = float64(rl.cfg.Burst)
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// idleSince reports whether the bucket has not been touched since t.
func (rl *RateLimiter) idleSince(t time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.lastRefill.Before(t)
}

// KeyedRateLimiter keeps one bucket per key, such as a user ID.
type KeyedRateLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*RateLimiter
}

// NewKeyedRateLimiter creates an empty keyed limiter.
func NewKeyedRateLimiter(cfg RateLimiterConfig) *KeyedRateLimiter {
	return &KeyedRateLimiter{cfg: cfg, now: time.Now, buckets: make(map[string]*RateLimiter)}
}

// Allow takes one token from key's bucket.
func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		b = newRateLimiter(k.cfg, k.now)
		k.buckets[key] = b
	}
	k.mu.Unlock()
	return b.Allow()
}

// Prune drops buckets idle for longer than maxIdle and returns how many were removed.
func (k *KeyedRateLimiter) Prune(maxIdle time.Duration) int {
	cutoff := k.now().Add(-maxIdle)
	k.mu.Lock()
	defer k.mu.Unlock()
	removed := 0
	for key, b := range k.buckets {
		if b.idleSince(cutoff) {
			delete(k.buckets, key)
			removed++
		}
	}
	return removed
}
