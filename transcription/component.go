package transcription

import (
	"context"
	"fmt"

	"github.com/kbukum/trascrivi/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component selects the backend at start-up so a misconfigured real backend
// fails the process before it serves traffic.
type Component struct {
	selector *Selector
}

// NewComponent wraps a Selector whose factories are already registered.
func NewComponent(s *Selector) *Component {
	return &Component{selector: s}
}

// Selector returns the wrapped selector.
func (c *Component) Selector() *Selector { return c.selector }

func (c *Component) Name() string { return "transcription" }

// Start builds the backend.
func (c *Component) Start(_ context.Context) error {
	if _, err := c.selector.Get(); err != nil {
		return fmt.Errorf("transcription start: %w", err)
	}
	return nil
}

// Stop drops the cached backend.
func (c *Component) Stop(_ context.Context) error {
	c.selector.Reset()
	return nil
}

// Health is unhealthy before Start, after Stop, and when the selected backend
// reports itself unavailable. It never builds a backend.
func (c *Component) Health(ctx context.Context) component.Health {
	svc, ok := c.selector.Current()
	if !ok {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if !svc.IsAvailable(ctx) {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: svc.Name() + " unavailable"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: svc.Name()}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Transcription",
		Type:    "transcription",
		Details: "backend=" + c.selector.Backend(),
	}
}
