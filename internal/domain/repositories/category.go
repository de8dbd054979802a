package repositories

import (
	"context"

	"docbase/internal/domain/models"
)

// CategoryRepository issues CRUD-style calls against the stored-category
// table. Stored categories keep empty folders visible; the tree itself is
// always derived, never persisted.
type CategoryRepository interface {
	// Upsert inserts a stored category, silently succeeding when a record
	// with the same path already exists.
	Upsert(ctx context.Context, cat *models.StoredCategory) error

	// List retrieves every stored category ordered by path.
	List(ctx context.Context) ([]models.StoredCategory, error)

	// ListSubtree retrieves stored categories whose path equals path or
	// descends from it.
	ListSubtree(ctx context.Context, path string) ([]models.StoredCategory, error)

	// UpdatePath rewrites path and name of one stored category.
	UpdatePath(ctx context.Context, id, path, name string) error

	// DeleteSubtree removes stored categories at path and below.
	DeleteSubtree(ctx context.Context, path string) error
}
