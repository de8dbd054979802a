package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const versionColumns = "id, document_id, version, storage_path, size, uploaded_by, status, created_at"

// Insert creates a new version row
func (r *PostgresVersionRepository) Insert(ctx context.Context, v *models.DocumentVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, version, storage_path, size, uploaded_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.DocumentVersions)

	err := r.pool.QueryRow(ctx, query,
		v.DocumentID,
		v.Label,
		v.StoragePath,
		v.Size,
		v.UploadedBy,
		v.Status,
	).Scan(&v.ID, &v.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", v.DocumentID, domain.ErrNotFound)
		}
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %s already exists for document %s", v.Label, v.DocumentID),
				ResourceType: "version",
			}
		}
		return &domain.BackendError{Op: "insert version", Cause: err}
	}

	return nil
}

// Get retrieves a version row by ID
func (r *PostgresVersionRepository) Get(ctx context.Context, id string) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, versionColumns, r.tables.DocumentVersions)

	var v models.DocumentVersion
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.DocumentID,
		&v.Label,
		&v.StoragePath,
		&v.Size,
		&v.UploadedBy,
		&v.Status,
		&v.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, &domain.BackendError{Op: "get version", Cause: err}
	}

	v.Filename = models.FilenameFromStoragePath(v.StoragePath)
	return &v, nil
}

// ListByDocumentIDs retrieves every version row belonging to the given documents
func (r *PostgresVersionRepository) ListByDocumentIDs(ctx context.Context, documentIDs []string) ([]models.DocumentVersion, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE document_id = ANY($1)
	`, versionColumns, r.tables.DocumentVersions)

	rows, err := r.pool.Query(ctx, query, documentIDs)
	if err != nil {
		return nil, &domain.BackendError{Op: "list versions", Cause: err}
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		var v models.DocumentVersion
		if err := rows.Scan(
			&v.ID,
			&v.DocumentID,
			&v.Label,
			&v.StoragePath,
			&v.Size,
			&v.UploadedBy,
			&v.Status,
			&v.CreatedAt,
		); err != nil {
			return nil, &domain.BackendError{Op: "scan version", Cause: err}
		}
		v.Filename = models.FilenameFromStoragePath(v.StoragePath)
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.BackendError{Op: "iterate versions", Cause: err}
	}

	return versions, nil
}

// CountByDocument returns the number of version rows for a document
func (r *PostgresVersionRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE document_id = $1
	`, r.tables.DocumentVersions)

	var count int
	if err := r.pool.QueryRow(ctx, query, documentID).Scan(&count); err != nil {
		return 0, &domain.BackendError{Op: "count versions", Cause: err}
	}

	return count, nil
}

// UpdateStatus sets the status of a single version row
func (r *PostgresVersionRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE id = $2`, r.tables.DocumentVersions)

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return &domain.BackendError{Op: "update version status", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateStatusByIDs sets the status of every listed version row
func (r *PostgresVersionRepository) UpdateStatusByIDs(ctx context.Context, ids []string, status models.Status) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE id = ANY($2)`, r.tables.DocumentVersions)

	if _, err := r.pool.Exec(ctx, query, status, ids); err != nil {
		return &domain.BackendError{Op: "update version statuses", Cause: err}
	}

	return nil
}

// UpdateStatusByDocument sets the status of every version row of a document
func (r *PostgresVersionRepository) UpdateStatusByDocument(ctx context.Context, documentID string, status models.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE document_id = $2`, r.tables.DocumentVersions)

	if _, err := r.pool.Exec(ctx, query, status, documentID); err != nil {
		return &domain.BackendError{Op: "update document version statuses", Cause: err}
	}

	return nil
}

// DeleteByDocument permanently removes every version row of a document
func (r *PostgresVersionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.DocumentVersions)

	if _, err := r.pool.Exec(ctx, query, documentID); err != nil {
		return &domain.BackendError{Op: "delete document versions", Cause: err}
	}

	return nil
}
