package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func initMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// HTTPMetrics holds request instruments for the API server.
type HTTPMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
}

// NewHTTPMetrics creates request instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestTotal, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}
	requestDuration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}
	requestActive, err := meter.Int64UpDownCounter("http.server.active",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.active gauge: %w", err)
	}
	return &HTTPMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
	}, nil
}

// RecordRequestStart increments the in-flight gauge.
func (m *HTTPMetrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements the in-flight gauge and records the request.
func (m *HTTPMetrics) RecordRequestEnd(ctx context.Context, route string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// TranscriptionMetrics holds the transcription backend instruments.
type TranscriptionMetrics struct {
	attempts metric.Int64Counter
	retries  metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewTranscriptionMetrics creates transcription instruments on meter.
func NewTranscriptionMetrics(meter metric.Meter) (*TranscriptionMetrics, error) {
	attempts, err := meter.Int64Counter("transcription.attempts",
		metric.WithDescription("Provider calls, one per attempt"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.attempts counter: %w", err)
	}
	retries, err := meter.Int64Counter("transcription.retries",
		metric.WithDescription("Retries scheduled after a retryable failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.retries counter: %w", err)
	}
	failures, err := meter.Int64Counter("transcription.failures",
		metric.WithDescription("Terminal transcription failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.failures counter: %w", err)
	}
	duration, err := meter.Float64Histogram("transcription.duration",
		metric.WithDescription("End-to-end transcription time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}
	return &TranscriptionMetrics{attempts: attempts, retries: retries, failures: failures, duration: duration}, nil
}

// MustTranscriptionMetrics builds instruments on the global meter. The global
// API never fails instrument creation, so a failure here is a programming error.
func MustTranscriptionMetrics() *TranscriptionMetrics {
	m, err := NewTranscriptionMetrics(Meter(instrumentationName))
	if err != nil {
		panic(err)
	}
	return m
}

// RecordAttempt counts one provider call.
func (m *TranscriptionMetrics) RecordAttempt(ctx context.Context, backend string) {
	m.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrBackend, backend)))
}

// RecordRetry counts one scheduled retry.
func (m *TranscriptionMetrics) RecordRetry(ctx context.Context, backend, code string) {
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrBackend, backend),
		attribute.String(AttrErrorCode, code),
	))
}

// RecordResult records the outcome of a Transcribe call. code is empty on success.
func (m *TranscriptionMetrics) RecordResult(ctx context.Context, backend, code string, d time.Duration) {
	status := "ok"
	if code != "" {
		status = "error"
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String(AttrBackend, backend),
			attribute.String(AttrErrorCode, code),
		))
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrBackend, backend),
		attribute.String("status", status),
	))
}
