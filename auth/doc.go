// Package auth verifies the bearer tokens issued by the identity provider.
//
// Tokens are HS256 JWTs signed with the project secret. The subject is the
// user ID; email and role are carried as extra claims.
//
//	v, err := auth.NewVerifier(cfg)
//	router.Use(middleware.Auth(middleware.AuthConfig{Validator: auth.Validator(v)}))
package auth
