package repositories

import (
	"context"
	"io"
)

// BlobStore stores uploaded file bytes and derives public URLs from the
// returned location handle.
type BlobStore interface {
	// Store writes the blob at the given object path and returns the
	// storage path handle.
	Store(ctx context.Context, objectPath string, contentType string, r io.Reader) (string, error)

	// PublicURL derives the publicly reachable URL for a stored object.
	PublicURL(storagePath string) string
}
