package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/trascrivi/logger"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-Id"

// maxRequestIDLength caps client-supplied IDs. Longer ones are replaced.
const maxRequestIDLength = 128

// RequestID keeps the caller's X-Request-Id or generates a UUID, echoes it on
// the response and stores it on the request context for logging.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.NewString()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
		})
	}
}
