package errors

import (
	"fmt"
	"net/http"
)

// AppError is the error type handlers return to clients.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail entry and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError whose retryable flag is derived from its code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// InvalidInput reports a malformed request field.
func InvalidInput(field, reason string) *AppError {
	e := &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest,
	}
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation wraps a validation summary message.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message, HTTPStatus: http.StatusBadRequest}
}

// MissingField reports a required field that was not supplied.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Details: map[string]any{"field": field},
	}
}

// PayloadTooLarge reports a request body above the configured limit.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: fmt.Sprintf("Request body exceeds %d bytes.", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge, Details: map[string]any{"limit": limit},
	}
}

// UnsupportedMediaType reports an upload whose content type is not accepted.
func UnsupportedMediaType(contentType string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedMediaType, Message: fmt.Sprintf("Unsupported content type %q.", contentType),
		HTTPStatus: http.StatusUnsupportedMediaType, Details: map[string]any{"content_type": contentType},
	}
}

// NotFound reports a missing resource.
func NotFound(resource, id string) *AppError {
	e := &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: map[string]any{"resource": resource},
	}
	if id != "" {
		e.Details["id"] = id
	}
	return e
}

// Unauthorized reports a request without valid credentials.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{Code: ErrCodeUnauthorized, Message: reason, HTTPStatus: http.StatusUnauthorized}
}

// InvalidToken reports a bearer token that failed verification.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid authentication token. Please log in again.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// TokenExpired reports a bearer token past its expiry.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Your session has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden reports an authenticated caller acting on someone else's resource.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return &AppError{Code: ErrCodeForbidden, Message: reason, HTTPStatus: http.StatusForbidden}
}

// RateLimited reports a caller over its request budget.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// StorageFailed reports a failed object storage operation.
func StorageFailed(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStorage, Message: "The storage service could not complete the request.",
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"operation": op}, Cause: cause,
	}
}

// Upstream reports a failure of a third-party service, keeping the upstream
// code and retryable hint as classified by the caller.
func Upstream(code string, message string, retryable bool, cause error) *AppError {
	return &AppError{
		Code: ErrorCode(code), Message: message,
		HTTPStatus: http.StatusBadGateway, Retryable: retryable, Cause: cause,
	}
}

// Internal reports an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
