package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Request errors
const (
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField         ErrorCode = "MISSING_FIELD"
	ErrCodePayloadTooLarge      ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
)

// Authentication errors
const (
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
)

// Availability errors (retryable)
const (
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeUpstream           ErrorCode = "UPSTREAM_ERROR"
	ErrCodeStorage            ErrorCode = "STORAGE_ERROR"
)

// ErrCodeInternal is returned for failures the client cannot act on.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRateLimited:        true,
	ErrCodeTimeout:            true,
	ErrCodeServiceUnavailable: true,
	ErrCodeUpstream:           true,
	ErrCodeStorage:            true,
}

// IsRetryableCode reports whether a client may retry a request that failed with code.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
