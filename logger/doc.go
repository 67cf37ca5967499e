// Package logger wraps zerolog with a small map-based field API.
//
//	log := logger.Get("transcription")
//	log.Info("transcribed", map[string]interface{}{"backend": "mock", "words": 12})
//
// Init configures the global logger from Config; Get returns named component
// loggers derived from it.
package logger
