package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/storage"
	"github.com/kbukum/trascrivi/transcription"
)

// StorageSource yields the storage backend. *storage.Component implements it.
type StorageSource interface {
	Storage() storage.Storage
}

// Backend yields the selected transcription backend. *transcription.Selector
// implements it.
type Backend interface {
	Get() (transcription.Service, error)
}

// Handler serves the /api routes.
type Handler struct {
	storage StorageSource
	backend Backend
	log     *logger.Logger
}

// NewHandler creates a Handler. A nil log uses the "api" logger.
func NewHandler(store StorageSource, backend Backend, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Get("api")
	}
	return &Handler{storage: store, backend: backend, log: log}
}

// Register mounts the routes under /api. The given middleware (auth, rate
// limiting) runs before every handler.
func (h *Handler) Register(r gin.IRouter, mw ...gin.HandlerFunc) {
	g := r.Group("/api", mw...)
	g.GET("/me", h.Me)
	g.POST("/upload", h.Upload)
	g.POST("/transcribe", h.Transcribe)
}
