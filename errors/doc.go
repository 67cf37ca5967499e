// Package errors defines the application error type returned by HTTP handlers.
//
// Every failure that reaches a client is an *AppError carrying a stable code,
// a human message, a retryable hint and the HTTP status to respond with.
// ToResponse renders the error in the {"error": {...}} envelope used by the API.
package errors
