package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbukum/trascrivi/component"
)

// Summary prints the startup overview: components, routes and live health.
type Summary struct {
	serviceName     string
	version         string
	environment     string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary printing to stdout.
func NewSummary(serviceName, version, environment string) *Summary {
	return &Summary{serviceName: serviceName, version: version, environment: environment, out: os.Stdout}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display prints the summary, collecting descriptions, routes and health
// from the registry.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	w := s.out
	fmt.Fprintf(w, "\n%s v%s (%s) started in %.2fs\n", s.serviceName, s.version, s.environment, s.startupDuration.Seconds())

	components := registry.All()
	var infra []component.Description
	var routes []component.Route
	for _, c := range components {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			infra = append(infra, desc)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(infra) > 0 {
		fmt.Fprintf(w, "\nInfrastructure\n")
		for i, d := range infra {
			details := d.Details
			if d.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, d.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(infra)), d.Name, d.Type, details)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	health := registry.HealthAll(ctx)
	if len(health) == 0 {
		fmt.Fprintf(w, "\n   └── No components registered\n\n")
		return
	}
	fmt.Fprintf(w, "\nHealth\n")
	healthy := 0
	for i, h := range health {
		msg := ""
		if h.Message != "" {
			msg = " (" + h.Message + ")"
		}
		if h.Status == component.StatusHealthy {
			healthy++
		}
		fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(health)), healthIcon(h.Status), h.Name, h.Status, msg)
	}
	fmt.Fprintf(w, "\n%d/%d components healthy\n\n", healthy, len(health))
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
