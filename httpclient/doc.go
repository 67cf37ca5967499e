// Package httpclient is a small JSON-oriented HTTP client used by the
// provider and storage adapters.
//
// Non-2xx responses come back as *Error values classified by status code.
// Their messages always carry the status number and the provider's own error
// text, which is what the transcription classifier matches on.
//
//	client, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Auth:    httpclient.HeaderAuth("authorization", key),
//	})
//	resp, err := httpclient.Post[job](client, ctx, "/v2/transcript", body)
package httpclient
