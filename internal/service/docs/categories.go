package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
	"docbase/internal/domain/services"
)

// categoryService implements the CategoryService interface. The tree is
// derived on every read; only flat path records are ever stored.
type categoryService struct {
	docRepo      repositories.DocumentRepository
	categoryRepo repositories.CategoryRepository
	logger       *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	docRepo repositories.DocumentRepository,
	categoryRepo repositories.CategoryRepository,
	logger *slog.Logger,
) services.CategoryService {
	return &categoryService{
		docRepo:      docRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Tree derives the category hierarchy from the non-deleted documents and
// grafts stored categories on top so empty folders stay visible.
func (s *categoryService) Tree(ctx context.Context) (*services.CategoryTree, error) {
	docs, err := s.docRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	stored, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	roots, uncategorized := ParseCategories(docs)

	paths := make([]string, len(stored))
	for i, c := range stored {
		paths[i] = c.Path
	}
	roots = MergeStoredCategories(roots, paths)

	return &services.CategoryTree{
		Roots:              roots,
		UncategorizedCount: uncategorized,
		TotalCount:         len(docs),
	}, nil
}

// Create stores an explicit category record. Creating a path that already
// exists succeeds silently.
func (s *categoryService) Create(ctx context.Context, path, name, ownerID string) error {
	if err := validateCategoryPath(path, name); err != nil {
		return err
	}

	cat := &models.StoredCategory{
		Path:      path,
		Name:      name,
		CreatedBy: ownerID,
	}
	if err := s.categoryRepo.Upsert(ctx, cat); err != nil {
		return err
	}

	s.logger.Info("category created", "path", path)
	return nil
}

// Rename replaces the last segment of oldPath with newName and rewrites
// every affected document and stored category. Rows are updated one by one;
// each rewrite is self-consistent, so order does not matter.
func (s *categoryService) Rename(ctx context.Context, oldPath, newName string) (string, error) {
	if oldPath == "" {
		return "", fmt.Errorf("%w: category path is required", domain.ErrValidation)
	}
	if newName == "" || strings.Contains(newName, "/") {
		return "", fmt.Errorf("%w: invalid category name %q", domain.ErrValidation, newName)
	}

	newPath := newName
	if idx := strings.LastIndex(oldPath, "/"); idx >= 0 {
		newPath = oldPath[:idx+1] + newName
	}
	if newPath == oldPath {
		return newPath, nil
	}

	docs, err := s.docRepo.ListByCategorySubtree(ctx, oldPath)
	if err != nil {
		return "", err
	}
	for _, d := range docs {
		rewritten := models.ReplacePathPrefix(d.Category, oldPath, newPath)
		if err := s.docRepo.UpdateCategory(ctx, d.ID, rewritten); err != nil {
			return "", err
		}
	}

	stored, err := s.categoryRepo.ListSubtree(ctx, oldPath)
	if err != nil {
		return "", err
	}
	for _, c := range stored {
		rewritten := models.ReplacePathPrefix(c.Path, oldPath, newPath)
		if err := s.categoryRepo.UpdatePath(ctx, c.ID, rewritten, models.LastSegment(rewritten)); err != nil {
			return "", err
		}
	}

	s.logger.Info("category renamed",
		"old_path", oldPath, "new_path", newPath,
		"documents", len(docs), "stored", len(stored),
	)
	return newPath, nil
}

// Delete detaches every document at path or below and removes the stored
// category records. Documents survive as uncategorized.
func (s *categoryService) Delete(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: category path is required", domain.ErrValidation)
	}

	docs, err := s.docRepo.ListByCategorySubtree(ctx, path)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if err := s.docRepo.UpdateCategory(ctx, d.ID, ""); err != nil {
			return err
		}
	}

	if err := s.categoryRepo.DeleteSubtree(ctx, path); err != nil {
		return err
	}

	s.logger.Info("category deleted", "path", path, "detached", len(docs))
	return nil
}

func validateCategoryPath(path, name string) error {
	switch {
	case path == "":
		return fmt.Errorf("%w: category path is required", domain.ErrValidation)
	case path == models.UncategorizedFilter:
		return fmt.Errorf("%w: %q is a reserved filter value", domain.ErrValidation, path)
	case strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") || strings.Contains(path, "//"):
		return fmt.Errorf("%w: malformed category path %q", domain.ErrValidation, path)
	case name == "" || strings.Contains(name, "/"):
		return fmt.Errorf("%w: invalid category name %q", domain.ErrValidation, name)
	case models.LastSegment(path) != name:
		return fmt.Errorf("%w: name %q does not match last segment of %q", domain.ErrValidation, name, path)
	}
	return nil
}
