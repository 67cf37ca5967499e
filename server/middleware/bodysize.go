package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/trascrivi/errors"
	"github.com/kbukum/trascrivi/util"
)

const defaultMaxBodySize = 10 * 1024 * 1024

// BodySizeLimit caps request bodies at maxSize ("10MB", "512KB", "1GB").
// Requests that declare a larger Content-Length are rejected with 413 before
// the handler runs; streamed bodies fail on read with *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeJSON(w, http.StatusRequestEntityTooLarge, apperrors.PayloadTooLarge(size).ToResponse())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
