package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/trascrivi/logger"
)

// Factory creates a backend from the storage config.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory makes a backend available to New. Backend packages call it
// from init.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Providers lists the registered backend names.
func Providers() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New validates cfg and creates the configured backend. The backend package
// must be imported for its factory to be registered. A nil log uses the global logger.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: provider %q is not registered", cfg.Provider)
	}

	if log == nil {
		log = logger.GetGlobalLogger()
	}
	l := log.WithComponent("storage")
	l.Info("initializing storage", map[string]interface{}{
		"provider": cfg.Provider,
		"bucket":   cfg.Bucket,
	})
	return f(cfg, l)
}
