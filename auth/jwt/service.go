// Package jwt signs and verifies HMAC JWTs for a caller-defined claims type.
//
//	svc, err := jwt.NewService(&cfg, func() *MyClaims { return &MyClaims{} })
//	token, err := svc.Generate(&MyClaims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "user-123"}})
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Re-exported parse errors for errors.Is checks.
var (
	ErrTokenExpired = gojwt.ErrTokenExpired
	ErrTokenInvalid = errors.New("jwt: invalid token")
)

// Service generates and parses tokens with claims of type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
}

// NewService validates cfg. newEmpty returns a fresh T to parse into.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service[T]{cfg: *cfg, newEmpty: newEmpty}, nil
}

// Generate signs claims as they are.
func (s *Service[T]) Generate(claims T) (string, error) {
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// GenerateAccess stamps iat, exp and iss when claims support it, then signs.
func (s *Service[T]) GenerateAccess(claims T) (string, error) {
	if setter, ok := any(claims).(interface {
		SetDefaults(now time.Time, ttl time.Duration, issuer string)
	}); ok {
		setter.SetDefaults(time.Now(), s.cfg.AccessTokenTTL, s.cfg.Issuer)
	}
	return s.Generate(claims)
}

// Parse verifies the signature, the time claims and, when configured, the
// issuer and audience. Expired tokens match ErrTokenExpired.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	token, err := gojwt.ParseWithClaims(tokenString, s.newEmpty(), s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return zero, ErrTokenInvalid
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

// ValidatorFunc adapts Parse for middleware that does not know T.
func (s *Service[T]) ValidatorFunc() func(string) (any, error) {
	return func(token string) (any, error) {
		return s.Parse(token)
	}
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(s.cfg.Leeway))
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience))
	}
	return opts
}
