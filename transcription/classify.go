package transcription

import (
	"strings"
)

type rule struct {
	code      ErrorCode
	retryable bool
	patterns  []string
}

var (
	authRule = rule{CodeAuth, false, []string{"401", "unauthorized"}}

	invalidRule = rule{CodeInvalidRequest, false, []string{"400", "bad request"}}

	// Checked in order after the auth/invalid pair; first match wins.
	rules = []rule{
		{CodeTimeout, true, []string{"timeout", "timed out", "deadline exceeded"}},
		{CodeNetwork, true, []string{
			"network", "econnreset", "econnrefused", "enotfound", "socket hang up",
			"connection reset", "connection refused", "no such host", "broken pipe", "unexpected eof",
		}},
		{CodeRateLimit, true, []string{"429", "rate limit", "too many requests"}},
		{CodeServer, true, []string{"500", "502", "503", "504", "server error", "bad gateway", "service unavailable"}},
	}
)

func (r rule) matches(msg string) bool {
	for _, p := range r.patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Classify maps a failure to a structured *Error by case-insensitive substring
// matching on its message. An *Error already in the chain is returned as is.
// Classify(nil) is nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if te, ok := AsError(err); ok {
		return te
	}

	code, retryable := classifyMessage(err.Error())
	return &Error{Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
}

func classifyMessage(message string) (ErrorCode, bool) {
	msg := strings.ToLower(message)

	isInvalid := invalidRule.matches(msg)
	if authRule.matches(msg) && !isInvalid {
		return authRule.code, authRule.retryable
	}
	if isInvalid {
		return invalidRule.code, invalidRule.retryable
	}
	for _, r := range rules {
		if r.matches(msg) {
			return r.code, r.retryable
		}
	}
	return CodeUnknown, false
}
