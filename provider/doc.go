// Package provider defines the base contract for swappable backends and a
// generic registry of named factories that build them from config maps.
//
//	reg := provider.NewRegistry[transcription.Service]()
//	reg.RegisterFactory("mock", mock.Factory())
//	svc, err := reg.Create("mock", map[string]any{"delay": "10ms"})
package provider
