package services

import (
	"context"

	"docbase/internal/domain/models"
)

// CategoryTree is the derived category hierarchy plus the counts the
// sidebar needs. It is rebuilt from flat paths on every read.
type CategoryTree struct {
	Roots              []*models.CategoryNode `json:"roots"`
	UncategorizedCount int                    `json:"uncategorized_count"`
	TotalCount         int                    `json:"total_count"`
}

// CategoryService manages the hierarchical category model: the derived tree
// and the cascading category mutations.
type CategoryService interface {
	// Tree derives the category tree from the current documents merged
	// with the explicitly stored categories.
	Tree(ctx context.Context) (*CategoryTree, error)

	// Create stores an explicit category record. Name must equal the last
	// segment of path. Creating an existing path is not an error.
	Create(ctx context.Context, path, name, ownerID string) error

	// Rename replaces the last segment of path and propagates the new
	// prefix to every affected document and stored category. Returns the
	// new path.
	Rename(ctx context.Context, oldPath, newName string) (string, error)

	// Delete detaches every document at path or below (they become
	// uncategorized) and removes the stored category records. Documents
	// themselves are never deleted.
	Delete(ctx context.Context, path string) error
}
