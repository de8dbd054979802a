package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const documentColumns = "id, name, filename, extension, category, storage_path, size, uploaded_by, status, created_at"

// Insert creates a new document header row
func (r *PostgresDocumentRepository) Insert(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, filename, extension, category, storage_path, size, uploaded_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, r.tables.Documents)

	err := r.pool.QueryRow(ctx, query,
		doc.Title,
		doc.Filename,
		doc.Extension,
		doc.Category,
		doc.StoragePath,
		doc.Size,
		doc.UploadedBy,
		doc.Status,
	).Scan(&doc.ID, &doc.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document '%s' already exists", doc.Title),
				ResourceType: "document",
			}
		}
		return &domain.BackendError{Op: "insert document", Cause: err}
	}

	return nil
}

// Get retrieves a document header by ID regardless of status
func (r *PostgresDocumentRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, documentColumns, r.tables.Documents)

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, &domain.BackendError{Op: "get document", Cause: err}
	}

	return doc, nil
}

// List retrieves document headers newest first, excluding soft-deleted rows
// unless includeDeleted is set
func (r *PostgresDocumentRepository) List(ctx context.Context, includeDeleted bool) ([]models.Document, error) {
	var where string
	if !includeDeleted {
		where = "WHERE status != 'deleted'"
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s %s ORDER BY created_at DESC
	`, documentColumns, r.tables.Documents, where)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.BackendError{Op: "list documents", Cause: err}
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListByCategorySubtree retrieves headers whose category equals path or
// descends from it
func (r *PostgresDocumentRepository) ListByCategorySubtree(ctx context.Context, path string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE category = $1 OR category LIKE $2
		ORDER BY created_at DESC
	`, documentColumns, r.tables.Documents)

	rows, err := r.pool.Query(ctx, query, path, likeSubtreePattern(path))
	if err != nil {
		return nil, &domain.BackendError{Op: "list documents by category", Cause: err}
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// UpdateStatus sets the header status field
func (r *PostgresDocumentRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE id = $2`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return &domain.BackendError{Op: "update document status", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateCategory sets the header category field; "" detaches
func (r *PostgresDocumentRepository) UpdateCategory(ctx context.Context, id, category string) error {
	query := fmt.Sprintf(`UPDATE %s SET category = $1 WHERE id = $2`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query, category, id)
	if err != nil {
		return &domain.BackendError{Op: "update document category", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateHeader rewrites the mutable header fields; nil fields stay untouched
func (r *PostgresDocumentRepository) UpdateHeader(ctx context.Context, id string, update models.DocumentHeaderUpdate) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("name", *update.Title)
	}
	if update.Category != nil {
		add("category", *update.Category)
	}
	if update.StoragePath != nil {
		add("storage_path", *update.StoragePath)
		add("filename", models.FilenameFromStoragePath(*update.StoragePath))
	}
	if update.Size != nil {
		add("size", *update.Size)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		r.tables.Documents, strings.Join(sets, ", "), len(args))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return &domain.BackendError{Op: "update document header", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete permanently removes the document row
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "document still has version rows",
				ResourceType: "document",
				ResourceID:   id,
			}
		}
		return &domain.BackendError{Op: "delete document", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Filename,
		&doc.Extension,
		&doc.Category,
		&doc.StoragePath,
		&doc.Size,
		&doc.UploadedBy,
		&doc.Status,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func collectDocuments(rows pgx.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, &domain.BackendError{Op: "scan document", Cause: err}
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.BackendError{Op: "iterate documents", Cause: err}
	}
	return docs, nil
}

// likeSubtreePattern builds the LIKE pattern matching strict descendants of
// a category path, escaping LIKE metacharacters in the path itself.
func likeSubtreePattern(path string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(path)
	return escaped + "/%"
}
