package transcription

import (
	"context"
	"math"
	"time"

	"github.com/kbukum/trascrivi/resilience"
)

// RetryPolicy bounds the attempts made for one Transcribe call.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, not additional retries.
	MaxAttempts int
	// BaseDelay is the sleep after the first failure; it doubles after each one.
	BaseDelay time.Duration
	// OnRetry runs before each backoff sleep with the classified failure.
	OnRetry func(attempt int, err *Error, backoff time.Duration)
}

// Retry runs fn until it succeeds, fails with a non-retryable classification,
// or MaxAttempts is reached. Every failure, including the terminal one and a
// cancelled ctx, is returned as a classified *Error.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}

	attempt := 0
	cfg := resilience.RetryConfig{
		MaxAttempts:    p.MaxAttempts,
		InitialBackoff: p.BaseDelay,
		MaxBackoff:     maxBackoff(p.BaseDelay, p.MaxAttempts),
		BackoffFactor:  2,
		RetryIf: func(err error) bool {
			te, ok := AsError(err)
			return ok && te.Retryable
		},
	}
	if p.OnRetry != nil {
		cfg.OnRetry = func(n int, err error, backoff time.Duration) {
			p.OnRetry(n, Classify(err), backoff)
		}
	}

	result, err := resilience.Retry(ctx, cfg, func() (T, error) {
		attempt++
		v, err := fn(ctx, attempt)
		if err != nil {
			return v, Classify(err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, Classify(err)
	}
	return result, nil
}

// maxBackoff is the delay before the last attempt, BaseDelay * 2^(attempts-2),
// saturating at the largest time.Duration.
func maxBackoff(base time.Duration, attempts int) time.Duration {
	d := base
	for i := 2; i < attempts; i++ {
		if d > math.MaxInt64/2 {
			return math.MaxInt64
		}
		d *= 2
	}
	return d
}
