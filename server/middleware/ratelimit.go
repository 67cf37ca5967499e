package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/trascrivi/errors"
	"github.com/kbukum/trascrivi/resilience"
)

const (
	defaultRequestsPerMinute = 60
	rateLimitPruneInterval   = 5 * time.Minute
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained rate per key.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// Burst is the bucket size. Defaults to RequestsPerMinute.
	Burst int `yaml:"burst" mapstructure:"burst"`
	// KeyFunc extracts the rate limit key. Defaults to UserBasedKey.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
}

// RateLimit applies a token bucket per key and answers 429 RATE_LIMITED when
// a bucket is empty. Idle buckets are pruned in the background.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRequestsPerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerMinute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = UserBasedKey
	}

	limiter := resilience.NewKeyedRateLimiter(resilience.RateLimiterConfig{
		Rate:  float64(cfg.RequestsPerMinute) / 60,
		Burst: cfg.Burst,
	})
	go func() {
		ticker := time.NewTicker(rateLimitPruneInterval)
		defer ticker.Stop()
		for range ticker.C {
			limiter.Prune(rateLimitPruneInterval)
		}
	}()

	return func(c *gin.Context) {
		if !limiter.Allow(cfg.KeyFunc(c)) {
			c.Header("Retry-After", "60")
			abortWithError(c, apperrors.RateLimited())
			return
		}
		c.Next()
	}
}

// IPBasedKey uses the client IP.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// UserBasedKey uses the authenticated user ID, falling back to the client IP.
func UserBasedKey(c *gin.Context) string {
	if uid := c.GetString(ContextKeyUserID); uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.ClientIP()
}
