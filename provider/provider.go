package provider

import "context"

// Provider is the base interface every backend implements.
type Provider interface {
	// Name returns the backend's registered name.
	Name() string
	// IsAvailable reports whether the backend can serve requests.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a config map.
type Factory[T Provider] func(cfg map[string]any) (T, error)
