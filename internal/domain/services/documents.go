package services

import (
	"context"
	"io"

	"docbase/internal/domain/models"
)

// UploadRequest carries a first-time document upload.
type UploadRequest struct {
	File        io.Reader
	Filename    string
	Size        int64
	ContentType string
	Title       string
	Category    string // "" = uncategorized
	OwnerID     string
}

// ReplaceRequest carries a replace-upload appending a new version to an
// existing document. CurrentVersionID names the version to deactivate.
type ReplaceRequest struct {
	DocumentID       string
	CurrentVersionID string
	File             io.Reader
	Filename         string
	Size             int64
	ContentType      string
	Title            string
	Category         string
	OwnerID          string
}

// RollbackRequest reactivates a prior version. NewerVersionIDs is computed
// by the caller as every version strictly newer than the target.
type RollbackRequest struct {
	DocumentID      string
	TargetVersionID string
	NewerVersionIDs []string
}

// DocumentService is the document version lifecycle: the read path assembling
// the document aggregate and every mutation against it.
type DocumentService interface {
	// ListDocuments fetches all non-deleted documents with their version
	// history and current-version selection. With includeDeleted set,
	// soft-deleted documents are returned as well.
	ListDocuments(ctx context.Context, includeDeleted bool) ([]models.Document, error)

	// Upload stores the blob and creates a pending document with version "1.0".
	Upload(ctx context.Context, req *UploadRequest) (*models.Document, error)

	// Replace stores a new blob as the next version of an existing document.
	Replace(ctx context.Context, req *ReplaceRequest) error

	// UpdateStatus applies a status to one version and the document header.
	// Only active, inactive and deleted are accepted.
	UpdateStatus(ctx context.Context, documentID, versionID string, status models.Status) error

	// UpdateCategory moves a document to a category path, creating any
	// missing ancestor categories. An empty category detaches.
	UpdateCategory(ctx context.Context, documentID, category, ownerID string) error

	// Rollback reactivates a target version and deactivates everything newer.
	Rollback(ctx context.Context, req *RollbackRequest) error

	// Delete removes a document according to the configured deletion mode
	// (soft: mark everything deleted; hard: remove rows permanently).
	Delete(ctx context.Context, documentID string) error

	// Purge always hard-deletes the document and its versions.
	Purge(ctx context.Context, documentID string) error
}
