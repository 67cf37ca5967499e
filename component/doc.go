// Package component defines the lifecycle contract shared by trascrivi's
// long-lived parts (storage, the transcription selector, telemetry, the HTTP
// server) and a Registry that starts them in order and stops them in reverse.
//
// Components may also implement Describable to appear in the startup summary
// and RouteProvider to report HTTP routes.
package component
