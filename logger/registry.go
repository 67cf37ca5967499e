package logger

import (
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Logger)
)

// Register stores a named logger.
func Register(name string, l *Logger) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = l
}

// Get returns the named logger, or the global logger tagged with name when
// none is registered.
func Get(name string) *Logger {
	registryMu.RLock()
	l, ok := registry[name]
	registryMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults seeds the registry with component loggers derived from the
// current global logger. Call it after Init.
func RegisterDefaults(names ...string) {
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
