package main

import (
	"fmt"

	"github.com/kbukum/trascrivi/auth"
	"github.com/kbukum/trascrivi/config"
	"github.com/kbukum/trascrivi/observability"
	"github.com/kbukum/trascrivi/server"
	"github.com/kbukum/trascrivi/server/middleware"
	"github.com/kbukum/trascrivi/storage"
	"github.com/kbukum/trascrivi/transcription"
)

// AppConfig is the full trascrivi configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config              `yaml:"server" mapstructure:"server"`
	Auth          auth.Config                `yaml:"auth" mapstructure:"auth"`
	Storage       storage.Config             `yaml:"storage" mapstructure:"storage"`
	Transcription transcription.Config       `yaml:"transcription" mapstructure:"transcription"`
	Observability observability.Config       `yaml:"observability" mapstructure:"observability"`
	RateLimit     middleware.RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Transcription.TestMode = c.IsTest()
	c.Observability.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"server", &c.Server},
		{"auth", &c.Auth},
		{"storage", &c.Storage},
		{"transcription", &c.Transcription},
		{"observability", &c.Observability},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit: values must not be negative")
	}
	return nil
}
