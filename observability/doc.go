// Package observability wires OpenTelemetry tracing and metrics.
//
// Instruments always come from the global providers, so they are no-ops until
// Init installs real ones:
//
//	shutdown, err := observability.Init(ctx, cfg, "trascrivi", "1.0.0", "production")
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "assemblyai.transcribe")
//	defer span.End()
package observability
