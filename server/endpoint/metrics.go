package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/trascrivi/version"
)

// RuntimeStats is the /metrics body.
type RuntimeStats struct {
	Timestamp     string       `json:"timestamp"`
	Build         version.Info `json:"build"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Goroutines    int          `json:"goroutines"`
	Memory        MemoryStats  `json:"memory"`
}

// MemoryStats reports heap usage in bytes.
type MemoryStats struct {
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	HeapInuseBytes uint64 `json:"heap_inuse_bytes"`
	SysBytes       uint64 `json:"sys_bytes"`
	GCRuns         uint32 `json:"gc_runs"`
	LastGCPauseNs  uint64 `json:"last_gc_pause_ns"`
}

// Metrics reports build identity, uptime since startedAt and Go runtime stats.
// Request and transcription metrics are exported through OpenTelemetry.
func Metrics(startedAt time.Time) gin.HandlerFunc {
	build := version.Get()
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, RuntimeStats{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Build:         build,
			UptimeSeconds: int64(time.Since(startedAt).Seconds()),
			Goroutines:    runtime.NumGoroutine(),
			Memory: MemoryStats{
				HeapAllocBytes: m.HeapAlloc,
				HeapInuseBytes: m.HeapInuse,
				SysBytes:       m.Sys,
				GCRuns:         m.NumGC,
				LastGCPauseNs:  m.PauseNs[(m.NumGC+255)%256],
			},
		})
	}
}
