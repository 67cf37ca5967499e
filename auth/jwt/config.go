package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names an HMAC algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// Config configures the token service.
type Config struct {
	// Secret is the HMAC key.
	Secret string
	// Method defaults to HS256.
	Method SigningMethod
	// Issuer, when set, is required in parsed tokens and stamped on generated ones.
	Issuer string
	// Audience, when set, must be present in parsed tokens.
	Audience string
	// AccessTokenTTL is the lifetime GenerateAccess applies (default 1h).
	AccessTokenTTL time.Duration
	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = time.Hour
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	switch c.Method {
	case HS256, HS384, HS512:
		return nil
	default:
		return errors.New("unsupported signing method: " + string(c.Method))
	}
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}
