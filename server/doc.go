// Package server runs trascrivi's HTTP API on Gin behind net/http with h2c.
//
// Server-level middleware (package middleware) wraps the root mux so it
// covers Gin routes and mounted handlers alike: recovery, request ID, CORS,
// body-size limit and request logging. Route-level middleware is Gin-native:
// bearer Auth, per-user RateLimit, Metrics and Tracing.
//
// Built-in endpoints (package endpoint) are /health, which aggregates
// component health, and /metrics, which reports Go runtime statistics.
package server
