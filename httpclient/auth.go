package httpclient

import "net/http"

// AuthConfig is a credential sent as a single request header.
type AuthConfig struct {
	Header string
	Value  string
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Header: "Authorization", Value: "Bearer " + token}
}

// HeaderAuth sends key as is in the named header, "X-API-Key" when name is
// empty. Provider APIs such as AssemblyAI take the raw key in "authorization".
func HeaderAuth(name, key string) *AuthConfig {
	if name == "" {
		name = "X-API-Key"
	}
	return &AuthConfig{Header: name, Value: key}
}

func (a *AuthConfig) apply(h http.Header) {
	if a == nil || a.Header == "" {
		return
	}
	h.Set(a.Header, a.Value)
}
