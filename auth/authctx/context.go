// Package authctx carries typed authentication claims on a context.
//
//	ctx = authctx.Set(ctx, claims)
//	claims, ok := authctx.Get[*auth.Claims](ctx)
package authctx

import (
	"context"
	"errors"
)

type contextKey struct{}

// ErrNoClaims is returned when claims are missing or of another type.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Set stores claims in ctx.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// Get returns the claims stored in ctx if they are a T.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(contextKey{}).(T)
	return claims, ok
}

// GetOrError is Get with ErrNoClaims for the missing case.
func GetOrError[T any](ctx context.Context) (T, error) {
	claims, ok := Get[T](ctx)
	if !ok {
		var zero T
		return zero, ErrNoClaims
	}
	return claims, nil
}
