package repositories

import (
	"context"

	"docbase/internal/domain/models"
)

// DocumentRepository issues CRUD-style calls against the document table.
// Every method is a single backend round trip; multi-step mutations are
// sequenced by the services, not wrapped in transactions.
type DocumentRepository interface {
	// Insert creates a document row and fills in ID and CreatedAt.
	Insert(ctx context.Context, doc *models.Document) error

	// Get retrieves a document header row by ID regardless of status.
	Get(ctx context.Context, id string) (*models.Document, error)

	// List retrieves document header rows ordered by creation time
	// descending. Rows with status deleted are excluded unless
	// includeDeleted is set.
	List(ctx context.Context, includeDeleted bool) ([]models.Document, error)

	// ListByCategorySubtree retrieves header rows whose category equals
	// path or descends from it.
	ListByCategorySubtree(ctx context.Context, path string) ([]models.Document, error)

	// UpdateStatus sets the header status field.
	UpdateStatus(ctx context.Context, id string, status models.Status) error

	// UpdateCategory sets the header category field ("" detaches).
	UpdateCategory(ctx context.Context, id, category string) error

	// UpdateHeader rewrites the mutable header fields after a replace
	// upload or rollback.
	UpdateHeader(ctx context.Context, id string, update models.DocumentHeaderUpdate) error

	// Delete permanently removes the document row. The caller must have
	// removed the version rows first.
	Delete(ctx context.Context, id string) error
}
