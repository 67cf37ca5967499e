// Package api holds the authenticated /api routes: the caller's identity,
// audio uploads to object storage and transcription of an uploaded path or a
// public audio URL.
package api
