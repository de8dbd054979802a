package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) repositories.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert inserts a stored category; an existing path is not an error
func (r *PostgresCategoryRepository) Upsert(ctx context.Context, cat *models.StoredCategory) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (path, name, created_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO NOTHING
		RETURNING id, created_at
	`, r.tables.Categories)

	err := r.pool.QueryRow(ctx, query, cat.Path, cat.Name, cat.CreatedBy).
		Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		// DO NOTHING on conflict returns no row; the category exists
		if isPgNoRowsError(err) {
			return nil
		}
		return &domain.BackendError{Op: "upsert category", Cause: err}
	}

	return nil
}

// List retrieves every stored category ordered by path
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.StoredCategory, error) {
	query := fmt.Sprintf(`
		SELECT id, path, name, created_by, created_at
		FROM %s ORDER BY path
	`, r.tables.Categories)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.BackendError{Op: "list categories", Cause: err}
	}
	defer rows.Close()

	return collectCategories(rows)
}

// ListSubtree retrieves stored categories at path and below
func (r *PostgresCategoryRepository) ListSubtree(ctx context.Context, path string) ([]models.StoredCategory, error) {
	query := fmt.Sprintf(`
		SELECT id, path, name, created_by, created_at
		FROM %s
		WHERE path = $1 OR path LIKE $2
		ORDER BY path
	`, r.tables.Categories)

	rows, err := r.pool.Query(ctx, query, path, likeSubtreePattern(path))
	if err != nil {
		return nil, &domain.BackendError{Op: "list category subtree", Cause: err}
	}
	defer rows.Close()

	return collectCategories(rows)
}

// UpdatePath rewrites path and name of one stored category
func (r *PostgresCategoryRepository) UpdatePath(ctx context.Context, id, path, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET path = $1, name = $2 WHERE id = $3`, r.tables.Categories)

	result, err := r.pool.Exec(ctx, query, path, name, id)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category path '%s' already exists", path),
				ResourceType: "category",
				ResourceID:   id,
			}
		}
		return &domain.BackendError{Op: "update category path", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteSubtree removes stored categories at path and below
func (r *PostgresCategoryRepository) DeleteSubtree(ctx context.Context, path string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE path = $1 OR path LIKE $2
	`, r.tables.Categories)

	if _, err := r.pool.Exec(ctx, query, path, likeSubtreePattern(path)); err != nil {
		return &domain.BackendError{Op: "delete category subtree", Cause: err}
	}

	return nil
}

func collectCategories(rows pgx.Rows) ([]models.StoredCategory, error) {
	var cats []models.StoredCategory
	for rows.Next() {
		var c models.StoredCategory
		if err := rows.Scan(&c.ID, &c.Path, &c.Name, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, &domain.BackendError{Op: "scan category", Cause: err}
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.BackendError{Op: "iterate categories", Cause: err}
	}
	return cats, nil
}
