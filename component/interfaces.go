package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's entry in the /health response.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a part of the service with a start/stop lifecycle.
type Component interface {
	// Name returns the unique registration name.
	Name() string
	// Start builds or connects the component. It must return once the
	// component is usable.
	Start(ctx context.Context) error
	// Stop releases resources.
	Stop(ctx context.Context) error
	// Health reports the current state.
	Health(ctx context.Context) Health
}

// Description is a startup summary line.
type Description struct {
	// Name is the display name. Empty means the component's Name().
	Name string
	// Type groups entries, e.g. "server", "storage", "transcription".
	Type string
	// Details is a short configuration summary, e.g. "provider=s3 bucket=audio".
	Details string
	// Port is the listening port, 0 if not applicable.
	Port int
}

// Describable is implemented by components that report themselves in the
// startup summary.
type Describable interface {
	Describe() Description
}

// Route is a registered HTTP route.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by server components that report their routes.
type RouteProvider interface {
	Routes() []Route
}
