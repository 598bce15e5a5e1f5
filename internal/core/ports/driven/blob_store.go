package driven

import "context"

// BlobStore lists and fetches objects from the document bucket.
// Errors on individual objects must not abort enumeration of the rest;
// callers skip failed objects and continue.
type BlobStore interface {
	// ListObjects returns the keys of all objects whose key ends with the
	// given suffix (case-insensitive).
	ListObjects(ctx context.Context, suffix string) ([]string, error)

	// Download fetches the full content of one object.
	Download(ctx context.Context, key string) ([]byte, error)
}
