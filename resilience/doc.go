// Package resilience provides retry with exponential backoff and token-bucket
// rate limiting.
//
//	result, err := resilience.Retry(ctx, resilience.RetryConfig{
//	    MaxAttempts:    3,
//	    InitialBackoff: time.Second,
//	    BackoffFactor:  2,
//	}, func() (*Thing, error) { return fetch(ctx) })
package resilience
