package transcription

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of transcription failure. The values are part of
// the API's error contract.
type ErrorCode string

const (
	// CodeTranscription means the provider finished the job but reported it as failed.
	CodeTranscription  ErrorCode = "TRANSCRIPTION_ERROR"
	CodeTimeout        ErrorCode = "TIMEOUT_ERROR"
	CodeNetwork        ErrorCode = "NETWORK_ERROR"
	CodeRateLimit      ErrorCode = "RATE_LIMIT_ERROR"
	CodeAuth           ErrorCode = "AUTH_ERROR"
	CodeInvalidRequest ErrorCode = "INVALID_REQUEST_ERROR"
	CodeServer         ErrorCode = "SERVER_ERROR"
	CodeUnknown        ErrorCode = "UNKNOWN_ERROR"
)

// Error is the structured failure returned to callers of Service.Transcribe.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// NewError creates an Error without a cause.
func NewError(code ErrorCode, message string, retryable bool) *Error {
	return &Error{Code: code, Message: message, Retryable: retryable}
}

func (e *Error) Error() string {
	return fmt.Sprintf("transcription: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// AsError finds the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
