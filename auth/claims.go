package auth

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the access token payload.
type Claims struct {
	gojwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// UserID returns the subject.
func (c *Claims) UserID() string { return c.Subject }

// SetDefaults stamps the time claims and issuer. Used when generating tokens.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
}
