package transcription

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kbukum/trascrivi/resilience"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond}
}

func TestRetry_NetworkErrorThenSuccess(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context, attempt int) (string, error) {
		calls++
		if attempt == 1 {
			return "", errors.New("read ECONNRESET")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected 'ok', got %q", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetry_AuthErrorShortCircuits(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context, attempt int) (string, error) {
		calls++
		return "", errors.New("Request failed with status 401")
	})
	te, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if te.Code != CodeAuth || te.Retryable {
		t.Errorf("expected non-retryable AUTH_ERROR, got %+v", te)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_Exhaustion(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context, attempt int) (string, error) {
		calls++
		return "", errors.New("network unreachable")
	})
	te, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if te.Code != CodeNetwork || !te.Retryable {
		t.Errorf("expected retryable NETWORK_ERROR, got %+v", te)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_StructuredNonRetryableStops(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, NewError(CodeTranscription, "job failed", false)
	})
	te, _ := AsError(err)
	if te == nil || te.Code != CodeTranscription {
		t.Errorf("expected TRANSCRIPTION_ERROR, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_BackoffDoubles(t *testing.T) {
	var backoffs []time.Duration
	var codes []ErrorCode
	policy := RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Millisecond,
		OnRetry: func(attempt int, err *Error, backoff time.Duration) {
			backoffs = append(backoffs, backoff)
			codes = append(codes, err.Code)
		},
	}
	start := time.Now()
	_, _ = Retry(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		return 0, errors.New("503 Service Unavailable")
	})
	elapsed := time.Since(start)

	want := []time.Duration{2 * time.Millisecond, 4 * time.Millisecond}
	if len(backoffs) != len(want) {
		t.Fatalf("expected %d backoffs, got %v", len(want), backoffs)
	}
	for i := range want {
		if backoffs[i] != want[i] {
			t.Errorf("backoff %d: expected %v, got %v", i+1, want[i], backoffs[i])
		}
		if codes[i] != CodeServer {
			t.Errorf("backoff %d: expected SERVER_ERROR, got %s", i+1, codes[i])
		}
	}
	if elapsed < 6*time.Millisecond {
		t.Errorf("expected at least 6ms of backoff, took %v", elapsed)
	}
}

func TestMaxBackoff(t *testing.T) {
	tests := []struct {
		name     string
		base     time.Duration
		attempts int
		want     time.Duration
	}{
		{"single attempt", time.Second, 1, time.Second},
		{"two attempts", time.Second, 2, time.Second},
		{"three attempts", time.Second, 3, 2 * time.Second},
		{"past sixteen doublings", time.Millisecond, 20, time.Millisecond << 18},
		{"saturates", time.Hour, 200, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxBackoff(tt.base, tt.attempts); got != tt.want {
				t.Errorf("maxBackoff(%v, %d) = %v, want %v", tt.base, tt.attempts, got, tt.want)
			}
		})
	}
}

func TestMaxBackoff_LastDelayKeepsDoubling(t *testing.T) {
	const attempts = 20
	cfg := resilience.RetryConfig{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     maxBackoff(time.Millisecond, attempts),
		BackoffFactor:  2,
	}
	last := resilience.Backoff(attempts-1, cfg)
	if last != time.Millisecond<<(attempts-2) {
		t.Errorf("expected last backoff %v, got %v", time.Millisecond<<(attempts-2), last)
	}
}

func TestRetry_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Hour,
		OnRetry:     func(int, *Error, time.Duration) { cancel() },
	}
	calls := 0
	_, err := Retry(ctx, policy, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("timeout")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation in the chain, got %v", err)
	}
	if _, ok := AsError(err); !ok {
		t.Errorf("expected classified *Error, got %T", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_ConcurrentCallsDoNotSerialize(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, BaseDelay: 50 * time.Millisecond}
	done := make(chan struct{}, 2)

	slow := func(ctx context.Context, attempt int) (int, error) {
		if attempt == 1 {
			return 0, errors.New("timeout")
		}
		return 1, nil
	}
	fast := func(ctx context.Context, attempt int) (int, error) { return 2, nil }

	start := time.Now()
	go func() { _, _ = Retry(context.Background(), policy, slow); done <- struct{}{} }()
	go func() { _, _ = Retry(context.Background(), policy, fast); done <- struct{}{} }()

	<-done
	if first := time.Since(start); first >= 50*time.Millisecond {
		t.Errorf("expected the fast call to finish before the slow backoff, took %v", first)
	}
	<-done
}

func TestRetry_ZeroPolicyMakesOneAttempt(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("timeout")
	})
	if err == nil || calls != 1 {
		t.Errorf("expected one failed attempt, got calls=%d err=%v", calls, err)
	}
}
