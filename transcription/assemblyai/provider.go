// Package assemblyai is the real transcription backend. It submits audio URLs
// to the AssemblyAI v2 transcript API, polls for completion and retries
// transient failures with exponential backoff.
package assemblyai

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/observability"
	"github.com/kbukum/trascrivi/provider"
	"github.com/kbukum/trascrivi/transcription"
)

// ProviderName is the registered name for this backend.
const ProviderName = transcription.BackendAssemblyAI

// UnknownFailureMessage is used when a failed job carries no error text.
const UnknownFailureMessage = "Transcription failed with unknown error"

// Provider implements transcription.Service on top of a TranscriptClient.
type Provider struct {
	cfg     Config
	client  TranscriptClient
	log     *logger.Logger
	metrics *observability.TranscriptionMetrics
}

// Option configures a Provider.
type Option func(*Provider)

// WithClient replaces the HTTP client, typically with a fake in tests.
func WithClient(c TranscriptClient) Option {
	return func(p *Provider) { p.client = c }
}

// WithMetrics sets the metric instruments. Defaults to the global meter.
func WithMetrics(m *observability.TranscriptionMetrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// WithLogger sets the provider logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// NewProvider validates cfg and builds the backend. A missing API key is an error.
func NewProvider(cfg Config, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{cfg: cfg, log: logger.Get("assemblyai")}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		c, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		p.client = c
	}
	if p.metrics == nil {
		p.metrics = observability.MustTranscriptionMetrics()
	}
	return p, nil
}

// Factory builds providers from a config map. See transcription.Config.FactoryConfig for keys.
func Factory() provider.Factory[transcription.Service] {
	return func(m map[string]any) (transcription.Service, error) {
		cfg := Config{
			APIKey:       provider.String(m, "api_key", ""),
			BaseURL:      provider.String(m, "base_url", DefaultBaseURL),
			LanguageCode: provider.String(m, "language_code", transcription.LanguageItalian),
		}
		var err error
		if cfg.PollingTimeout, err = provider.Duration(m, "polling_timeout", transcription.DefaultPollingTimeout); err != nil {
			return nil, err
		}
		if cfg.PollingInterval, err = provider.Duration(m, "polling_interval", transcription.DefaultPollingInterval); err != nil {
			return nil, err
		}
		if cfg.MaxRetries, err = provider.Int(m, "max_retries", transcription.DefaultMaxRetries); err != nil {
			return nil, err
		}
		if cfg.RetryBaseDelay, err = provider.Duration(m, "retry_base_delay", transcription.DefaultRetryBaseDelay); err != nil {
			return nil, err
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the backend is configured with a key.
func (p *Provider) IsAvailable(context.Context) bool { return p.cfg.APIKey != "" }

// Transcribe submits audioURL, waits for the transcript and maps it. Transient
// failures are retried up to MaxRetries attempts in total; the error returned
// is always a *transcription.Error.
func (p *Provider) Transcribe(ctx context.Context, audioURL string) (*transcription.Result, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "assemblyai.transcribe", trace.WithAttributes(
		attribute.String(observability.AttrBackend, ProviderName),
	))
	defer span.End()

	policy := transcription.RetryPolicy{
		MaxAttempts: p.cfg.MaxRetries,
		BaseDelay:   p.cfg.RetryBaseDelay,
		OnRetry: func(attempt int, err *transcription.Error, backoff time.Duration) {
			p.metrics.RecordRetry(ctx, ProviderName, string(err.Code))
			p.log.WithContext(ctx).Warn("transcription attempt failed, retrying", map[string]interface{}{
				logger.FieldAttempt: attempt,
				logger.FieldCode:    string(err.Code),
				logger.FieldError:   err.Message,
				"backoff":           backoff.String(),
				"max_attempts":      p.cfg.MaxRetries,
			})
		},
	}

	result, err := transcription.Retry(ctx, policy, func(ctx context.Context, attempt int) (*transcription.Result, error) {
		return p.attempt(ctx, audioURL, attempt)
	})

	code := ""
	if te, ok := transcription.AsError(err); ok {
		code = string(te.Code)
		span.SetAttributes(
			attribute.String(observability.AttrErrorCode, code),
			attribute.Bool(observability.AttrRetryable, te.Retryable),
		)
		observability.RecordError(span, err)
		p.log.WithContext(ctx).Error("transcription failed", map[string]interface{}{
			logger.FieldCode:     code,
			logger.FieldError:    te.Message,
			logger.FieldDuration: time.Since(start).String(),
		})
	}
	p.metrics.RecordResult(ctx, ProviderName, code, time.Since(start))
	return result, err
}

func (p *Provider) attempt(ctx context.Context, audioURL string, attempt int) (*transcription.Result, error) {
	ctx, span := observability.StartSpan(ctx, "assemblyai.attempt", trace.WithAttributes(
		attribute.Int(observability.AttrAttempt, attempt),
	))
	defer span.End()
	p.metrics.RecordAttempt(ctx, ProviderName)

	p.log.WithContext(ctx).Debug("submitting transcript", map[string]interface{}{
		logger.FieldAttempt: attempt,
		"language_code":     p.cfg.LanguageCode,
	})
	t, err := p.client.Transcribe(ctx,
		TranscriptParams{AudioURL: audioURL, LanguageCode: p.cfg.LanguageCode},
		PollOptions{Interval: p.cfg.PollingInterval, Timeout: p.cfg.PollingTimeout},
	)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if t.Status == StatusError {
		msg := t.Error
		if msg == "" {
			msg = UnknownFailureMessage
		}
		err := transcription.NewError(transcription.CodeTranscription, msg, false)
		observability.RecordError(span, err)
		return nil, err
	}
	return toResult(t), nil
}

func toResult(t *Transcript) *transcription.Result {
	words := make([]transcription.Word, 0, len(t.Words))
	for _, w := range t.Words {
		words = append(words, transcription.Word{
			Text:       w.Text,
			Start:      w.Start,
			End:        w.End,
			Confidence: transcription.ClampConfidence(w.Confidence),
		})
	}
	text := ""
	if t.Text != nil {
		text = transcription.NormalizeText(*t.Text)
	}
	return &transcription.Result{
		Text:       text,
		Confidence: transcription.MeanConfidence(words),
		Words:      words,
	}
}
