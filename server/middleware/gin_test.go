package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/trascrivi/auth"
	"github.com/kbukum/trascrivi/auth/authctx"
	"github.com/kbukum/trascrivi/observability"
	"github.com/kbukum/trascrivi/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func token(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := &auth.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   sub,
			Audience:  gojwt.ClaimStrings{"authenticated"},
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
		Email: "anna@example.com",
	}
	s, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	v, err := auth.NewVerifier(auth.Config{JWTSecret: testSecret})
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	r.Use(middleware.Auth(middleware.AuthConfig{Validator: auth.Validator(v), SkipPaths: []string{"/public"}}))
	r.GET("/api/me", func(c *gin.Context) {
		claims, err := authctx.GetOrError[*auth.Claims](c.Request.Context())
		if err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": claims.UserID(), "uid": c.GetString(middleware.ContextKeyUserID)})
	})
	r.GET("/public/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuth(t *testing.T) {
	r := authRouter(t)
	valid := token(t, "user-1", time.Now().Add(time.Hour))

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"missing header", "/api/me", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "/api/me", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"empty token", "/api/me", "Bearer   ", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", "/api/me", "Bearer not-a-jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expired", "/api/me", "Bearer " + token(t, "user-1", time.Now().Add(-time.Hour)), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"no subject", "/api/me", "Bearer " + token(t, "", time.Now().Add(time.Hour)), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"valid", "/api/me", "Bearer " + valid, http.StatusOK, ""},
		{"lowercase scheme", "/api/me", "bearer " + valid, http.StatusOK, ""},
		{"skipped path", "/public/ping", "", http.StatusNoContent, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tc.wantCode, w.Code, w.Body.String())
			}
			if tc.wantErr != "" {
				if code := errorCode(t, w.Body.Bytes()); code != tc.wantErr {
					t.Errorf("expected %s, got %s", tc.wantErr, code)
				}
			}
			if tc.wantCode == http.StatusOK && w.Body.String() != `{"sub":"user-1","uid":"user-1"}` {
				t.Errorf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, c.GetHeader("X-User"))
		c.Next()
	})
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: 2}))
	r.GET("/api/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/me", http.NoBody)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := call("alice"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	w := call("alice")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if code := errorCode(t, w.Body.Bytes()); code != "RATE_LIMITED" {
		t.Errorf("expected RATE_LIMITED, got %s", code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if w := call("bob"); w.Code != http.StatusOK {
		t.Errorf("other users keep their own budget, got %d", w.Code)
	}
}

func TestUserBasedKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Request.RemoteAddr = "203.0.113.9:5555"

	if got := middleware.UserBasedKey(c); got != "ip:203.0.113.9" {
		t.Errorf("expected ip key, got %q", got)
	}
	c.Set(middleware.ContextKeyUserID, "user-1")
	if got := middleware.UserBasedKey(c); got != "user:user-1" {
		t.Errorf("expected user key, got %q", got)
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	m, err := observability.NewHTTPMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	r.Use(middleware.Metrics(m))
	r.GET("/api/me", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	for _, path := range []string{"/api/me", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if path == "/api/me" && w.Code != http.StatusAccepted {
			t.Errorf("expected 202, got %d", w.Code)
		}
	}
}

func TestTracing_ServerSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
		_ = tp.Shutdown(context.Background())
	})

	r := gin.New()
	r.Use(middleware.Tracing())
	r.POST("/api/transcribe", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", http.NoBody)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "POST /api/transcribe" {
		t.Errorf("unexpected span name %q", s.Name())
	}
	if got := s.SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected the incoming trace to continue, got %s", got)
	}
	if s.Status().Code.String() != "Error" {
		t.Errorf("expected error status for 502, got %v", s.Status())
	}
}
