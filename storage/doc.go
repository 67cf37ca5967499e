// Package storage is the object store behind audio uploads.
//
// Backends register themselves on import:
//
//	import _ "github.com/kbukum/trascrivi/storage/supabase"
//
//	store, err := storage.New(cfg, log)
//	obj, err := store.Upload(ctx, "user-1/clip.mp3", file, storage.UploadOptions{ContentType: "audio/mpeg"})
//
// Supported providers: supabase (Storage REST API), s3 (and S3-compatible
// services) and local (filesystem, served by the HTTP server).
package storage
