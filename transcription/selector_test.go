package transcription

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeService struct {
	name string
	cfg  map[string]any
}

func (f *fakeService) Name() string                   { return f.name }
func (f *fakeService) IsAvailable(context.Context) bool { return true }
func (f *fakeService) Transcribe(context.Context, string) (*Result, error) {
	return &Result{Text: f.name, Confidence: 1}, nil
}

func newTestSelector(cfg Config, builds *atomic.Int32) *Selector {
	s := NewSelector(cfg)
	for _, name := range []string{BackendMock, BackendAssemblyAI} {
		s.Register(name, func(c map[string]any) (Service, error) {
			if builds != nil {
				builds.Add(1)
			}
			return &fakeService{name: name, cfg: c}, nil
		})
	}
	return s
}

func TestChooseBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"test mode with key", Config{TestMode: true, AssemblyAI: AssemblyAIConfig{APIKey: "k"}}, BackendMock},
		{"test mode without key", Config{TestMode: true}, BackendMock},
		{"no key", Config{}, BackendMock},
		{"key outside test mode", Config{AssemblyAI: AssemblyAIConfig{APIKey: "k"}}, BackendAssemblyAI},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChooseBackend(tc.cfg); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSelector_TestModeAlwaysMock(t *testing.T) {
	s := newTestSelector(Config{TestMode: true, AssemblyAI: AssemblyAIConfig{APIKey: "secret"}}, nil)
	svc, err := s.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Name() != BackendMock {
		t.Errorf("expected mock backend, got %s", svc.Name())
	}
}

func TestSelector_CachesUntilReset(t *testing.T) {
	s := newTestSelector(Config{}, nil)
	first, _ := s.Get()
	second, _ := s.Get()
	if first != second {
		t.Error("expected the cached instance on the second call")
	}

	s.Reset()
	third, _ := s.Get()
	if third == first {
		t.Error("expected a new instance after Reset")
	}
}

func TestSelector_ConfigureReevaluatesPolicy(t *testing.T) {
	s := newTestSelector(Config{}, nil)
	svc, _ := s.Get()
	if svc.Name() != BackendMock {
		t.Fatalf("expected mock without a key, got %s", svc.Name())
	}

	s.Configure(Config{AssemblyAI: AssemblyAIConfig{APIKey: "k"}})
	svc, _ = s.Get()
	if svc.Name() != BackendAssemblyAI {
		t.Errorf("expected assemblyai after configuring a key, got %s", svc.Name())
	}
	if s.Backend() != BackendAssemblyAI {
		t.Errorf("expected Backend() to report assemblyai, got %s", s.Backend())
	}
}

func TestSelector_PassesRealBackendParameters(t *testing.T) {
	s := newTestSelector(Config{AssemblyAI: AssemblyAIConfig{APIKey: "k"}}, nil)
	svc, err := s.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := svc.(*fakeService).cfg
	checks := map[string]any{
		"api_key":          "k",
		"language_code":    "it",
		"polling_timeout":  300 * time.Second,
		"polling_interval": 3 * time.Second,
		"max_retries":      3,
		"retry_base_delay": time.Second,
	}
	for k, want := range checks {
		if cfg[k] != want {
			t.Errorf("%s: expected %v, got %v", k, want, cfg[k])
		}
	}
}

func TestSelector_ConcurrentGetBuildsOnce(t *testing.T) {
	var builds atomic.Int32
	s := newTestSelector(Config{}, &builds)

	const n = 32
	results := make([]Service, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.Get()
		}(i)
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Errorf("expected exactly 1 build, got %d", builds.Load())
	}
	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("expected all callers to observe the same instance")
		}
	}
}

func TestSelector_FactoryErrorIsNotCached(t *testing.T) {
	s := NewSelector(Config{AssemblyAI: AssemblyAIConfig{APIKey: "k"}})
	fail := true
	s.Register(BackendAssemblyAI, func(map[string]any) (Service, error) {
		if fail {
			return nil, errors.New("api key rejected")
		}
		return &fakeService{name: BackendAssemblyAI}, nil
	})

	if _, err := s.Get(); err == nil {
		t.Fatal("expected factory error")
	}
	fail = false
	if svc, err := s.Get(); err != nil || svc == nil {
		t.Errorf("expected a retry to build the backend, got %v", err)
	}
}

func TestSelector_UnregisteredBackend(t *testing.T) {
	s := NewSelector(Config{})
	if _, err := s.Get(); err == nil {
		t.Error("expected error without a mock factory")
	}
}

func TestConfig_DefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.AssemblyAI.PollingTimeout != 300*time.Second || cfg.AssemblyAI.PollingInterval != 3*time.Second {
		t.Errorf("unexpected polling defaults: %+v", cfg.AssemblyAI)
	}
	if cfg.AssemblyAI.MaxRetries != 3 || cfg.AssemblyAI.RetryBaseDelay != time.Second {
		t.Errorf("unexpected retry defaults: %+v", cfg.AssemblyAI)
	}
	if cfg.Mock.Delay != time.Second {
		t.Errorf("unexpected mock delay default: %v", cfg.Mock.Delay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}

	bad := cfg
	bad.AssemblyAI.PollingInterval = time.Hour
	if err := bad.Validate(); err == nil {
		t.Error("expected interval > timeout to fail")
	}
	bad = cfg
	bad.AssemblyAI.MaxRetries = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected negative retries to fail")
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	var builds atomic.Int32
	c := NewComponent(newTestSelector(Config{}, &builds))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "healthy" || h.Message != BackendMock {
		t.Errorf("unexpected health: %+v", h)
	}
	if d := c.Describe(); d.Details != "backend=mock" {
		t.Errorf("unexpected details %q", d.Details)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if builds.Load() != 2 {
		t.Errorf("expected stop to drop the cached backend, got %d builds", builds.Load())
	}
}

func TestComponent_HealthDoesNotBuildBackend(t *testing.T) {
	var builds atomic.Int32
	s := newTestSelector(Config{}, &builds)
	c := NewComponent(s)

	if h := c.Health(context.Background()); h.Status != "unhealthy" || h.Message != "not started" {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy after stop, got %+v", h)
	}
	if _, ok := s.Current(); ok {
		t.Error("expected no cached backend after health check")
	}
	if builds.Load() != 1 {
		t.Errorf("expected 1 build, got %d", builds.Load())
	}
}

func TestComponent_StartFailsOnFactoryError(t *testing.T) {
	s := NewSelector(Config{AssemblyAI: AssemblyAIConfig{APIKey: "k"}})
	s.Register(BackendAssemblyAI, func(map[string]any) (Service, error) {
		return nil, errors.New("assemblyai: api key is required")
	})
	c := NewComponent(s)
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	if h := c.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %+v", h)
	}
}
