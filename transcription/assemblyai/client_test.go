package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/trascrivi/transcription"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{APIKey: "secret-key", BaseURL: srv.URL, RequestTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

var fastPoll = PollOptions{Interval: time.Millisecond, Timeout: 2 * time.Second}

func TestClient_SubmitAndPoll(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "secret-key" {
			t.Errorf("expected raw key in authorization header, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["audio_url"] != "https://cdn.example.com/a.mp3" || body["language_code"] != "it" {
			t.Errorf("unexpected body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "tx-abc", "status": "queued"})
	})
	mux.HandleFunc("GET /v2/transcript/tx-abc", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "tx-abc", "status": "processing", "text": nil, "words": nil})
			return
		}
		_, _ = w.Write([]byte(`{"id":"tx-abc","status":"completed","text":"buongiorno",
			"words":[{"text":"buongiorno","start":10,"end":700,"confidence":0.91}]}`))
	})

	c := newTestClient(t, mux)
	tr, err := c.Transcribe(context.Background(),
		TranscriptParams{AudioURL: "https://cdn.example.com/a.mp3", LanguageCode: "it"}, fastPoll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Status != StatusCompleted || tr.Text == nil || *tr.Text != "buongiorno" {
		t.Errorf("unexpected transcript: %+v", tr)
	}
	if len(tr.Words) != 1 || tr.Words[0].End != 700 {
		t.Errorf("unexpected words: %+v", tr.Words)
	}
	if got := polls.Load(); got != 3 {
		t.Errorf("expected 3 polls, got %d", got)
	}
}

func TestClient_ReturnsFailedJob(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tx-fail","status":"queued"}`))
	})
	mux.HandleFunc("GET /v2/transcript/tx-fail", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tx-fail","status":"error","error":"Unsupported audio format"}`))
	})

	tr, err := newTestClient(t, mux).Transcribe(context.Background(), TranscriptParams{AudioURL: "u"}, fastPoll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Status != StatusError || tr.Error != "Unsupported audio format" {
		t.Errorf("unexpected transcript: %+v", tr)
	}
}

func TestClient_PollingTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tx-slow","status":"queued"}`))
	})
	mux.HandleFunc("GET /v2/transcript/tx-slow", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tx-slow","status":"processing"}`))
	})

	_, err := newTestClient(t, mux).Transcribe(context.Background(), TranscriptParams{AudioURL: "u"},
		PollOptions{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond})
	if !errors.Is(err, ErrPollingTimeout) {
		t.Fatalf("expected ErrPollingTimeout, got %v", err)
	}
	if te := transcription.Classify(err); te.Code != transcription.CodeTimeout || !te.Retryable {
		t.Errorf("expected retryable TIMEOUT_ERROR, got %s", te.Code)
	}
}

func TestClient_StatusErrorsClassify(t *testing.T) {
	tests := []struct {
		status    int
		body      string
		wantCode  transcription.ErrorCode
		retryable bool
	}{
		{http.StatusUnauthorized, `{"error":"Invalid API key"}`, transcription.CodeAuth, false},
		{http.StatusBadRequest, `{"error":"audio_url is not a valid URL"}`, transcription.CodeInvalidRequest, false},
		{http.StatusTooManyRequests, `{"error":"slow down"}`, transcription.CodeRateLimit, true},
		{http.StatusServiceUnavailable, `{"error":"maintenance"}`, transcription.CodeServer, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := c.Transcribe(context.Background(), TranscriptParams{AudioURL: "u"}, fastPoll)
			if err == nil {
				t.Fatal("expected error")
			}
			te := transcription.Classify(err)
			if te.Code != tt.wantCode || te.Retryable != tt.retryable {
				t.Errorf("expected %s/%v, got %s/%v (%v)", tt.wantCode, tt.retryable, te.Code, te.Retryable, err)
			}
		})
	}
}

func TestProvider_RetriesServerErrorOverHTTP(t *testing.T) {
	var submits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		if submits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":"tx-ok","status":"completed","text":"  salve  ","words":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "k", BaseURL: srv.URL, RetryBaseDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	res, err := p.Transcribe(context.Background(), "https://cdn.example.com/a.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "salve" {
		t.Errorf("expected normalized text, got %q", res.Text)
	}
	if res.Confidence != transcription.FallbackConfidence {
		t.Errorf("expected fallback confidence, got %v", res.Confidence)
	}
	if got := submits.Load(); got != 2 {
		t.Errorf("expected 2 submits, got %d", got)
	}
}
