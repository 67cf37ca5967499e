package auth

import (
	"errors"
	"time"
)

// DefaultAudience is the audience of signed-in user tokens.
const DefaultAudience = "authenticated"

// Config holds token verification settings.
type Config struct {
	// JWTSecret is the project's HMAC signing secret.
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	// Issuer, when set, must match the iss claim.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Audience must be present in the aud claim. Defaults to "authenticated".
	Audience string        `yaml:"audience" mapstructure:"audience"`
	Leeway   time.Duration `yaml:"leeway" mapstructure:"leeway"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Audience == "" {
		c.Audience = DefaultAudience
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Leeway < 0 {
		return errors.New("auth.leeway must not be negative")
	}
	return nil
}
