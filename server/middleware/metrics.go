package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/trascrivi/observability"
)

// Metrics records request count, in-flight requests and duration per route
// template. Unmatched routes are recorded as "unmatched".
func Metrics(m *observability.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, route, c.Writer.Status(), time.Since(start))
	}
}
