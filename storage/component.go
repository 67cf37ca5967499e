package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/trascrivi/component"
	"github.com/kbukum/trascrivi/logger"
)

// Component owns the storage backend lifecycle.
type Component struct {
	cfg     Config
	log     *logger.Logger
	storage Storage
}

// NewComponent creates a storage component. The backend is built on Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

var _ component.Component = (*Component)(nil)

// Storage returns the backend, or nil before Start.
func (c *Component) Storage() Storage { return c.storage }

// Config returns the effective configuration.
func (c *Component) Config() Config { return c.cfg }

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start builds the backend.
func (c *Component) Start(_ context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health reports whether the backend is built.
func (c *Component) Health(_ context.Context) component.Health {
	if c.storage == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns the startup summary entry.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	switch c.cfg.Provider {
	case ProviderLocal:
		details += " path=" + c.cfg.BasePath
	default:
		details += " bucket=" + c.cfg.Bucket
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
