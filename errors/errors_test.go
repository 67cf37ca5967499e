package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew_DerivesRetryable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeRateLimited, true},
		{ErrCodeUpstream, true},
		{ErrCodeStorage, true},
		{ErrCodeInvalidInput, false},
		{ErrCodeUnauthorized, false},
		{ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			err := New(tc.code, "msg", http.StatusTeapot)
			if err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v for %s", tc.retryable, tc.code)
			}
			if err.HTTPStatus != http.StatusTeapot {
				t.Errorf("expected status %d, got %d", http.StatusTeapot, err.HTTPStatus)
			}
		})
	}
}

func TestConstructors_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"invalid input", InvalidInput("path", "bad"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"missing field", MissingField("file"), ErrCodeMissingField, http.StatusBadRequest},
		{"too large", PayloadTooLarge(10), ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"media type", UnsupportedMediaType("text/plain"), ErrCodeUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"not found", NotFound("object", "a/b"), ErrCodeNotFound, http.StatusNotFound},
		{"unauthorized", Unauthorized(""), ErrCodeUnauthorized, http.StatusUnauthorized},
		{"invalid token", InvalidToken(), ErrCodeInvalidToken, http.StatusUnauthorized},
		{"expired", TokenExpired(), ErrCodeTokenExpired, http.StatusUnauthorized},
		{"forbidden", Forbidden(""), ErrCodeForbidden, http.StatusForbidden},
		{"rate limited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests},
		{"storage", StorageFailed("upload", nil), ErrCodeStorage, http.StatusBadGateway},
		{"internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
		})
	}
}

func TestNotFound_EmptyID(t *testing.T) {
	err := NotFound("object", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestUpstream_KeepsClassification(t *testing.T) {
	cause := fmt.Errorf("provider said no")
	err := Upstream("AUTH_ERROR", "bad key", false, cause)
	if err.Code != "AUTH_ERROR" || err.Retryable {
		t.Errorf("unexpected classification: %+v", err)
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.HTTPStatus)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Internal(fmt.Errorf("disk full"))
	if !strings.Contains(err.Error(), "INTERNAL_ERROR") || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("unexpected error string %q", err.Error())
	}
	plain := Validation("nope")
	if plain.Error() != "INVALID_INPUT: nope" {
		t.Errorf("unexpected error string %q", plain.Error())
	}
}

func TestToResponse_JSON(t *testing.T) {
	err := InvalidInput("audioUrl", "must be a URL")
	data, mErr := json.Marshal(err.ToResponse())
	if mErr != nil {
		t.Fatalf("marshal: %v", mErr)
	}
	var decoded map[string]map[string]any
	if uErr := json.Unmarshal(data, &decoded); uErr != nil {
		t.Fatalf("unmarshal: %v", uErr)
	}
	body := decoded["error"]
	if body["code"] != "INVALID_INPUT" {
		t.Errorf("expected code INVALID_INPUT, got %v", body["code"])
	}
	if body["retryable"] != false {
		t.Errorf("expected retryable=false, got %v", body["retryable"])
	}
	details, _ := body["details"].(map[string]any)
	if details["field"] != "audioUrl" {
		t.Errorf("expected field detail, got %v", body["details"])
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Forbidden("not yours"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError in chain")
	}
	if appErr.Code != ErrCodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", appErr.Code)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected no AppError for plain error")
	}
}
