package middleware

import "net/http"

// Middleware wraps an http.Handler. Server-level middleware (recovery,
// request ID, CORS, body size, request logging) uses this type and runs for
// every route, including handlers mounted next to Gin.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware. The first in the list is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
