package assemblyai

import (
	"fmt"
	"time"

	"github.com/kbukum/trascrivi/transcription"
)

// DefaultBaseURL is the public API host.
const DefaultBaseURL = "https://api.assemblyai.com"

const defaultRequestTimeout = 30 * time.Second

// Config configures the AssemblyAI backend.
type Config struct {
	APIKey          string        `json:"api_key" yaml:"api_key"`
	BaseURL         string        `json:"base_url" yaml:"base_url"`
	LanguageCode    string        `json:"language_code" yaml:"language_code"`
	PollingTimeout  time.Duration `json:"polling_timeout" yaml:"polling_timeout"`
	PollingInterval time.Duration `json:"polling_interval" yaml:"polling_interval"`
	// MaxRetries is the total number of attempts per Transcribe call.
	MaxRetries     int           `json:"max_retries" yaml:"max_retries"`
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
	// RequestTimeout bounds each HTTP request made while submitting or polling.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.LanguageCode == "" {
		c.LanguageCode = transcription.LanguageItalian
	}
	if c.PollingTimeout <= 0 {
		c.PollingTimeout = transcription.DefaultPollingTimeout
	}
	if c.PollingInterval <= 0 {
		c.PollingInterval = transcription.DefaultPollingInterval
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = transcription.DefaultMaxRetries
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = transcription.DefaultRetryBaseDelay
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("assemblyai: api key is required")
	}
	if c.PollingInterval > c.PollingTimeout {
		return fmt.Errorf("assemblyai: polling interval %s exceeds polling timeout %s", c.PollingInterval, c.PollingTimeout)
	}
	return nil
}
