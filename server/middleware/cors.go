package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds CORS middleware configuration. An origin entry may be "*"
// or a subdomain wildcard such as "https://*.trascrivi.it".
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers" mapstructure:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	// MaxAge is the preflight cache lifetime in seconds. Zero omits the header.
	MaxAge int `yaml:"max_age" mapstructure:"max_age"`
}

type corsPolicy struct {
	anyOrigin bool
	exact     map[string]bool
	suffixes  [][2]string // scheme prefix, host suffix

	methods, headers, exposed, maxAge string
	credentials                       bool
}

func newCORSPolicy(cfg *CORSConfig) *corsPolicy {
	p := &corsPolicy{
		exact:       make(map[string]bool),
		methods:     strings.Join(cfg.AllowedMethods, ", "),
		headers:     strings.Join(cfg.AllowedHeaders, ", "),
		exposed:     strings.Join(cfg.ExposedHeaders, ", "),
		credentials: cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	for _, o := range cfg.AllowedOrigins {
		switch {
		case o == "*":
			p.anyOrigin = true
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://*")
			p.suffixes = append(p.suffixes, [2]string{scheme + "://", host})
		default:
			p.exact[o] = true
		}
	}
	return p
}

func (p *corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.anyOrigin || p.exact[origin] {
		return true
	}
	for _, s := range p.suffixes {
		if strings.HasPrefix(origin, s[0]) && strings.HasSuffix(origin, s[1]) && len(origin) > len(s[0])+len(s[1]) {
			return true
		}
	}
	return false
}

// CORS sets the allow headers for permitted origins and answers preflight
// requests with 204 without calling next.
func CORS(cfg *CORSConfig) Middleware {
	p := newCORSPolicy(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if p.allows(origin) {
				h := w.Header()
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Origin", origin)
				setIfNotEmpty(h, "Access-Control-Allow-Methods", p.methods)
				setIfNotEmpty(h, "Access-Control-Allow-Headers", p.headers)
				setIfNotEmpty(h, "Access-Control-Expose-Headers", p.exposed)
				if p.credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if preflight {
					setIfNotEmpty(h, "Access-Control-Max-Age", p.maxAge)
				}
			}
			if preflight {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setIfNotEmpty(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}
