package transcription

import (
	"sync"

	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/provider"
)

// Selector builds the process's transcription backend on first use and hands
// out the same instance until Reset.
type Selector struct {
	cfg      Config
	registry *provider.Registry[Service]
	log      *logger.Logger

	mu  sync.Mutex
	svc Service
}

// NewSelector creates a Selector with an empty factory registry.
func NewSelector(cfg Config) *Selector {
	cfg.ApplyDefaults()
	return &Selector{
		cfg:      cfg,
		registry: provider.NewRegistry[Service](),
		log:      logger.Get("transcription"),
	}
}

// Register adds a backend factory.
func (s *Selector) Register(name string, factory provider.Factory[Service]) {
	s.registry.RegisterFactory(name, factory)
}

// Backend returns the name ChooseBackend picks for this selector's config.
func (s *Selector) Backend() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ChooseBackend(s.cfg)
}

// Get returns the cached backend, building it when the cache is empty. Only
// one backend is built even under concurrent first calls. A build error is
// returned and nothing is cached.
func (s *Selector) Get() (Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil {
		return s.svc, nil
	}

	name := ChooseBackend(s.cfg)
	svc, err := s.registry.Create(name, s.cfg.FactoryConfig(name))
	if err != nil {
		return nil, err
	}
	s.log.Info("transcription backend selected", map[string]interface{}{
		logger.FieldBackend: name,
		"test_mode":         s.cfg.TestMode,
	})
	s.svc = svc
	return svc, nil
}

// Current returns the cached backend without building one.
func (s *Selector) Current() (Service, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc, s.svc != nil
}

// Reset drops the cached backend so the next Get re-applies the policy.
func (s *Selector) Reset() {
	s.mu.Lock()
	s.svc = nil
	s.mu.Unlock()
}

// Configure replaces the selection config and drops the cached backend.
func (s *Selector) Configure(cfg Config) {
	cfg.ApplyDefaults()
	s.mu.Lock()
	s.cfg = cfg
	s.svc = nil
	s.mu.Unlock()
}
