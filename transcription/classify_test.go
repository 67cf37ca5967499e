package transcription

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		code      ErrorCode
		retryable bool
	}{
		{"status 401", "Request failed with status 401", CodeAuth, false},
		{"unauthorized word", "Unauthorized: invalid API key", CodeAuth, false},
		{"status 400", "httpclient: validation (HTTP 400): audio_url is required", CodeInvalidRequest, false},
		{"bad request word", "Bad Request", CodeInvalidRequest, false},
		{"401 and 400 both match", "401 unauthorized after 400 bad request", CodeInvalidRequest, false},
		{"timeout", "polling timeout after 300000ms", CodeTimeout, true},
		{"client timeout", "Get \"x\": context deadline exceeded (Client.Timeout exceeded while awaiting headers)", CodeTimeout, true},
		{"network", "Network Error", CodeNetwork, true},
		{"econnreset", "read ECONNRESET", CodeNetwork, true},
		{"connection refused", "dial tcp 127.0.0.1:1: connect: connection refused", CodeNetwork, true},
		{"no such host", "dial tcp: lookup api.example: no such host", CodeNetwork, true},
		{"status 429", "httpclient: rate_limit (HTTP 429): slow down", CodeRateLimit, true},
		{"rate limit words", "Rate limit exceeded", CodeRateLimit, true},
		{"status 500", "status 500", CodeServer, true},
		{"status 502", "HTTP 502", CodeServer, true},
		{"status 503", "503 Service Unavailable", CodeServer, true},
		{"status 504", "upstream 504", CodeServer, true},
		{"server error words", "Internal Server Error", CodeServer, true},
		{"401 wins over 500", "401 then 500", CodeAuth, false},
		{"timeout wins over network", "network timeout", CodeTimeout, true},
		{"unknown", "something odd happened", CodeUnknown, false},
		{"empty", "", CodeUnknown, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(errors.New(tc.message))
			if got.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, got.Code)
			}
			if got.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, got.Retryable)
			}
			if got.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, got.Message)
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("expected nil classification for nil error")
	}
}

func TestClassify_PassesThroughStructuredError(t *testing.T) {
	orig := NewError(CodeTranscription, "audio too short", false)
	wrapped := fmt.Errorf("attempt 1: %w", orig)
	if got := Classify(wrapped); got != orig {
		t.Errorf("expected the original *Error, got %+v", got)
	}
}

func TestClassify_KeepsCause(t *testing.T) {
	cause := errors.New("read: connection reset by peer")
	got := Classify(cause)
	if !errors.Is(got, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestClassify_ContextErrors(t *testing.T) {
	if got := Classify(context.DeadlineExceeded); got.Code != CodeTimeout {
		t.Errorf("expected deadline to classify as timeout, got %s", got.Code)
	}
	if got := Classify(context.Canceled); got.Code != CodeUnknown || got.Retryable {
		t.Errorf("expected cancellation to be unknown and final, got %+v", got)
	}
}

func TestError_String(t *testing.T) {
	err := NewError(CodeAuth, "bad key", false)
	if err.Error() != "transcription: AUTH_ERROR: bad key" {
		t.Errorf("unexpected error string %q", err.Error())
	}
}
