package observability

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/trascrivi/component"
)

// Component installs the telemetry providers on Start and flushes them on Stop.
type Component struct {
	cfg         Config
	serviceName string
	version     string
	environment string

	mu       sync.Mutex
	shutdown ShutdownFunc
}

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, serviceName, version, environment string) *Component {
	return &Component{cfg: cfg, serviceName: serviceName, version: version, environment: environment}
}

func (c *Component) Name() string { return "telemetry" }

func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown != nil {
		return nil
	}
	shutdown, err := Init(ctx, c.cfg, c.serviceName, c.version, c.environment)
	if err != nil {
		return fmt.Errorf("telemetry init: %w", err)
	}
	c.shutdown = shutdown
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	shutdown := c.shutdown
	c.shutdown = nil
	c.mu.Unlock()
	if shutdown == nil {
		return nil
	}
	return shutdown(ctx)
}

func (c *Component) Health(context.Context) component.Health {
	c.mu.Lock()
	started := c.shutdown != nil
	c.mu.Unlock()
	if !started {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	msg := "export disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: msg}
}

func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp http %s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Type: "telemetry", Details: details}
}
