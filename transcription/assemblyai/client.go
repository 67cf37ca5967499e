package assemblyai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/trascrivi/httpclient"
	"github.com/kbukum/trascrivi/resilience"
)

// ErrPollingTimeout is returned when a transcript does not finish within the
// polling timeout. Its message classifies as a timeout.
var ErrPollingTimeout = errors.New("assemblyai: transcript polling timeout exceeded")

// TranscriptStatus is the job state reported by the API.
type TranscriptStatus string

const (
	StatusQueued     TranscriptStatus = "queued"
	StatusProcessing TranscriptStatus = "processing"
	StatusCompleted  TranscriptStatus = "completed"
	StatusError      TranscriptStatus = "error"
)

// Done reports whether s is terminal.
func (s TranscriptStatus) Done() bool {
	return s == StatusCompleted || s == StatusError
}

// TranscriptParams is the submit request body.
type TranscriptParams struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code,omitempty"`
}

// PollOptions controls the wait for a submitted transcript.
type PollOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

// TranscriptWord is one word as returned by the API. Times are milliseconds.
type TranscriptWord struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Transcript is the subset of the transcript resource the backend reads.
// Text and Words are null until the job completes.
type Transcript struct {
	ID     string           `json:"id"`
	Status TranscriptStatus `json:"status"`
	Text   *string          `json:"text"`
	Words  []TranscriptWord `json:"words"`
	Error  string           `json:"error,omitempty"`
}

// TranscriptClient submits a transcript job and waits for it to finish.
type TranscriptClient interface {
	Transcribe(ctx context.Context, params TranscriptParams, poll PollOptions) (*Transcript, error)
}

// Client talks to the v2 transcript endpoints.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a client authenticated with cfg.APIKey.
func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Auth:    httpclient.HeaderAuth("authorization", cfg.APIKey),
	})
	if err != nil {
		return nil, fmt.Errorf("assemblyai: %w", err)
	}
	return &Client{http: hc}, nil
}

var _ TranscriptClient = (*Client)(nil)

// Submit creates a transcript job.
func (c *Client) Submit(ctx context.Context, params TranscriptParams) (*Transcript, error) {
	resp, err := httpclient.Post[Transcript](c.http, ctx, "/v2/transcript", params)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Get fetches the current state of a transcript job.
func (c *Client) Get(ctx context.Context, id string) (*Transcript, error) {
	resp, err := httpclient.Get[Transcript](c.http, ctx, "/v2/transcript/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Transcribe submits params and polls until the job is completed or failed.
// The returned transcript may have StatusError; only transport and protocol
// failures are returned as errors.
func (c *Client) Transcribe(ctx context.Context, params TranscriptParams, poll PollOptions) (*Transcript, error) {
	t, err := c.Submit(ctx, params)
	if err != nil {
		return nil, err
	}
	if t.Status.Done() {
		return t, nil
	}
	if t.ID == "" {
		return nil, fmt.Errorf("assemblyai: submit response has no transcript id")
	}
	return c.wait(ctx, t.ID, poll)
}

func (c *Client) wait(ctx context.Context, id string, poll PollOptions) (*Transcript, error) {
	pollCtx, cancel := context.WithTimeout(ctx, poll.Timeout)
	defer cancel()

	expired := func(err error) error {
		if ctx.Err() == nil && pollCtx.Err() != nil {
			return ErrPollingTimeout
		}
		return err
	}

	for {
		if err := resilience.Sleep(pollCtx, poll.Interval); err != nil {
			return nil, expired(err)
		}
		t, err := c.Get(pollCtx, id)
		if err != nil {
			return nil, expired(err)
		}
		if t.Status.Done() {
			return t, nil
		}
	}
}
