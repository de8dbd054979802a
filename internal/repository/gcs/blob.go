package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"docbase/internal/domain"
	"docbase/internal/domain/repositories"
)

// BlobStore stores uploaded files in a Google Cloud Storage bucket and
// derives public URLs from the configured serving domain.
type BlobStore struct {
	client       *storage.Client
	bucket       string
	publicDomain string
}

// NewBlobStore creates a blob store over the given bucket. publicDomain is
// the base URL objects are publicly served from; when empty, the standard
// storage.googleapis.com URL is used.
func NewBlobStore(ctx context.Context, bucket, publicDomain string) (*BlobStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &BlobStore{
		client:       client,
		bucket:       bucket,
		publicDomain: strings.TrimSuffix(publicDomain, "/"),
	}, nil
}

// Store writes the blob at objectPath and returns the storage path handle
// "{bucket}/{objectPath}".
func (b *BlobStore) Store(ctx context.Context, objectPath string, contentType string, r io.Reader) (string, error) {
	w := b.client.Bucket(b.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", &domain.BackendError{Op: "write blob", Cause: err}
	}
	if err := w.Close(); err != nil {
		return "", &domain.BackendError{Op: "finalize blob", Cause: err}
	}

	return b.bucket + "/" + objectPath, nil
}

// PublicURL derives the publicly reachable URL for a stored object.
func (b *BlobStore) PublicURL(storagePath string) string {
	if b.publicDomain != "" {
		return b.publicDomain + "/" + storagePath
	}
	return "https://storage.googleapis.com/" + storagePath
}

// Close releases the underlying storage client.
func (b *BlobStore) Close() error {
	return b.client.Close()
}

var _ repositories.BlobStore = (*BlobStore)(nil)
