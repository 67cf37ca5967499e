// Package validation checks request input and reports failures as
// INVALID_INPUT AppErrors with per-field details.
//
// Struct tags, using JSON field names in messages:
//
//	type TranscribeRequest struct {
//	    AudioURL string `json:"audioUrl" validate:"omitempty,http_url"`
//	}
//	err := validation.Validate(req)
//
// Programmatic checks:
//
//	v := validation.New()
//	v.Custom(strings.HasPrefix(ct, "audio/"), "file", "must be an audio file")
//	if err := v.Validate(); err != nil { ... }
package validation
