package auth

import (
	"github.com/kbukum/trascrivi/auth/jwt"
)

// TokenValidator validates a raw token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts a function to TokenValidator.
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}

// Verifier parses tokens into *Claims.
type Verifier = jwt.Service[*Claims]

// NewVerifier builds a Verifier from cfg.
func NewVerifier(cfg Config) (*Verifier, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return jwt.NewService(&jwt.Config{
		Secret:   cfg.JWTSecret,
		Method:   jwt.HS256,
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Leeway:   cfg.Leeway,
	}, func() *Claims { return &Claims{} })
}

// Validator exposes v as a TokenValidator.
func Validator(v *Verifier) TokenValidator {
	return TokenValidatorFunc(v.ValidatorFunc())
}
