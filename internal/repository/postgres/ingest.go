package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
)

// PostgresIngestRepository implements the IngestRepository interface
type PostgresIngestRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewIngestRepository creates a new ingest repository
func NewIngestRepository(config *RepositoryConfig) repositories.IngestRepository {
	return &PostgresIngestRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListPending retrieves pending review-queue pages oldest first, with the
// owning document's title and category joined in.
func (r *PostgresIngestRepository) ListPending(ctx context.Context) ([]models.IngestPage, error) {
	query := fmt.Sprintf(`
		SELECT q.id, q.filename, q.image_url, q.content, q.page_number,
		       q.document_id, q.status, q.created_at,
		       COALESCE(d.name, ''), COALESCE(d.category, '')
		FROM %s q
		LEFT JOIN %s d ON d.id = q.document_id
		WHERE q.status = 'pending'
		ORDER BY q.created_at ASC
	`, r.tables.IngestQueue, r.tables.Documents)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.BackendError{Op: "list pending pages", Cause: err}
	}
	defer rows.Close()

	var pages []models.IngestPage
	for rows.Next() {
		var p models.IngestPage
		if err := rows.Scan(
			&p.ID,
			&p.Filename,
			&p.ImageURL,
			&p.Content,
			&p.PageNumber,
			&p.DocumentID,
			&p.Status,
			&p.CreatedAt,
			&p.DocumentTitle,
			&p.DocumentCategory,
		); err != nil {
			return nil, &domain.BackendError{Op: "scan page", Cause: err}
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.BackendError{Op: "iterate pages", Cause: err}
	}

	return pages, nil
}

// GetPendingByIDs retrieves the subset of the given pages still pending
func (r *PostgresIngestRepository) GetPendingByIDs(ctx context.Context, ids []string) ([]models.IngestPage, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, filename, image_url, content, page_number, document_id, status, created_at
		FROM %s
		WHERE id = ANY($1) AND status = 'pending'
		ORDER BY created_at ASC
	`, r.tables.IngestQueue)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, &domain.BackendError{Op: "get pending pages", Cause: err}
	}
	defer rows.Close()

	var pages []models.IngestPage
	for rows.Next() {
		var p models.IngestPage
		if err := rows.Scan(
			&p.ID,
			&p.Filename,
			&p.ImageURL,
			&p.Content,
			&p.PageNumber,
			&p.DocumentID,
			&p.Status,
			&p.CreatedAt,
		); err != nil {
			return nil, &domain.BackendError{Op: "scan page", Cause: err}
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.BackendError{Op: "iterate pages", Cause: err}
	}

	return pages, nil
}

// UpdateContent stores reviewer-corrected page content
func (r *PostgresIngestRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := fmt.Sprintf(`UPDATE %s SET content = $1 WHERE id = $2`, r.tables.IngestQueue)

	result, err := r.pool.Exec(ctx, query, content, id)
	if err != nil {
		return &domain.BackendError{Op: "update page content", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateStatusByIDs sets the status of every listed page
func (r *PostgresIngestRepository) UpdateStatusByIDs(ctx context.Context, ids []string, status models.Status) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE id = ANY($2)`, r.tables.IngestQueue)

	if _, err := r.pool.Exec(ctx, query, status, ids); err != nil {
		return &domain.BackendError{Op: "update page statuses", Cause: err}
	}

	return nil
}
