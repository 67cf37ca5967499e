package transcription

import (
	"fmt"
	"time"
)

// Backend names registered with the Selector.
const (
	BackendMock       = "mock"
	BackendAssemblyAI = "assemblyai"
)

// LanguageItalian is the source language sent to the real backend.
const LanguageItalian = "it"

// Real backend defaults.
const (
	DefaultPollingTimeout  = 300 * time.Second
	DefaultPollingInterval = 3 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryBaseDelay  = time.Second
	DefaultMockDelay       = time.Second
)

// Config is the transcription section of the application config.
type Config struct {
	// TestMode forces the mock backend. It is set from the service environment.
	TestMode   bool             `yaml:"-" mapstructure:"-"`
	AssemblyAI AssemblyAIConfig `yaml:"assemblyai" mapstructure:"assemblyai"`
	Mock       MockConfig       `yaml:"mock" mapstructure:"mock"`
}

// AssemblyAIConfig configures the real backend.
type AssemblyAIConfig struct {
	APIKey          string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url"`
	PollingTimeout  time.Duration `yaml:"polling_timeout" mapstructure:"polling_timeout"`
	PollingInterval time.Duration `yaml:"polling_interval" mapstructure:"polling_interval"`
	MaxRetries      int           `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBaseDelay  time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
}

// MockConfig configures the mock backend.
type MockConfig struct {
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`
	Text  string        `yaml:"text" mapstructure:"text"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	a := &c.AssemblyAI
	if a.PollingTimeout == 0 {
		a.PollingTimeout = DefaultPollingTimeout
	}
	if a.PollingInterval == 0 {
		a.PollingInterval = DefaultPollingInterval
	}
	if a.MaxRetries == 0 {
		a.MaxRetries = DefaultMaxRetries
	}
	if a.RetryBaseDelay == 0 {
		a.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.Mock.Delay == 0 {
		c.Mock.Delay = DefaultMockDelay
	}
}

// Validate checks value ranges. A missing API key is not an error; it selects the mock backend.
func (c *Config) Validate() error {
	a := c.AssemblyAI
	if a.PollingTimeout < 0 || a.PollingInterval < 0 || a.RetryBaseDelay < 0 || c.Mock.Delay < 0 {
		return fmt.Errorf("transcription: durations must not be negative")
	}
	if a.PollingInterval > a.PollingTimeout {
		return fmt.Errorf("transcription.assemblyai.polling_interval (%s) exceeds polling_timeout (%s)", a.PollingInterval, a.PollingTimeout)
	}
	if a.MaxRetries < 1 {
		return fmt.Errorf("transcription.assemblyai.max_retries must be at least 1 (got: %d)", a.MaxRetries)
	}
	return nil
}

// ChooseBackend returns the backend name for cfg: mock in test mode or without
// an API key, assemblyai otherwise.
func ChooseBackend(cfg Config) string {
	if cfg.TestMode || cfg.AssemblyAI.APIKey == "" {
		return BackendMock
	}
	return BackendAssemblyAI
}

// FactoryConfig returns the factory config map for the named backend.
func (c Config) FactoryConfig(backend string) map[string]any {
	switch backend {
	case BackendAssemblyAI:
		a := c.AssemblyAI
		return map[string]any{
			"api_key":          a.APIKey,
			"base_url":         a.BaseURL,
			"language_code":    LanguageItalian,
			"polling_timeout":  a.PollingTimeout,
			"polling_interval": a.PollingInterval,
			"max_retries":      a.MaxRetries,
			"retry_base_delay": a.RetryBaseDelay,
		}
	default:
		return map[string]any{
			"delay": c.Mock.Delay,
			"text":  c.Mock.Text,
		}
	}
}
