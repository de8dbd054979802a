package repositories

import (
	"context"

	"docbase/internal/domain/models"
)

// VersionRepository issues CRUD-style calls against the version table.
type VersionRepository interface {
	// Insert creates a version row and fills in ID and CreatedAt.
	Insert(ctx context.Context, v *models.DocumentVersion) error

	// Get retrieves a version row by ID.
	Get(ctx context.Context, id string) (*models.DocumentVersion, error)

	// ListByDocumentIDs retrieves every version row belonging to the given
	// documents, in no guaranteed order.
	ListByDocumentIDs(ctx context.Context, documentIDs []string) ([]models.DocumentVersion, error)

	// CountByDocument returns the number of version rows for a document,
	// used to derive the next version label.
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// UpdateStatus sets the status of a single version row.
	UpdateStatus(ctx context.Context, id string, status models.Status) error

	// UpdateStatusByIDs sets the status of every listed version row. An
	// empty id list is a no-op.
	UpdateStatusByIDs(ctx context.Context, ids []string, status models.Status) error

	// UpdateStatusByDocument sets the status of every version row owned by
	// a document.
	UpdateStatusByDocument(ctx context.Context, documentID string, status models.Status) error

	// DeleteByDocument permanently removes every version row owned by a
	// document.
	DeleteByDocument(ctx context.Context, documentID string) error
}
