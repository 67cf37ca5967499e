package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/trascrivi/logger"
)

const slowRequestThreshold = 500 * time.Millisecond

// RequestLogger logs every request with method, path, status and duration.
// Health and metrics probes are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbeEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"duration_ms": duration.Milliseconds(),
				"bytes":       sw.written,
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			if duration > slowRequestThreshold {
				fields["slow"] = true
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func isProbeEndpoint(path string) bool {
	path = strings.TrimPrefix(path, "/api")
	return path == "/health" || path == "/metrics"
}

// logByStatus logs at error for 5xx, warn for 4xx and debug otherwise.
// A nil log uses the global logger.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
