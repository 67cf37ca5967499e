// Package transcription defines the speech-to-text capability used by the API,
// the structured errors backends return, the failure classifier, the retry
// engine that wraps provider calls, and the selector that picks a backend at
// start-up.
//
// # Backends
//
//   - transcription/mock: deterministic, offline
//   - transcription/assemblyai: AssemblyAI submit-and-poll API
//
// # Usage
//
//	sel := transcription.NewSelector(cfg)
//	sel.Register(transcription.BackendMock, mock.Factory())
//	sel.Register(transcription.BackendAssemblyAI, assemblyai.Factory())
//	svc, err := sel.Get()
//	result, err := svc.Transcribe(ctx, audioURL)
package transcription
