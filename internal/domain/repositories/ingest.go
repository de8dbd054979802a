package repositories

import (
	"context"

	"docbase/internal/domain/models"
)

// IngestRepository issues CRUD-style calls against the review-queue table.
type IngestRepository interface {
	// ListPending retrieves pages with status pending, oldest first.
	ListPending(ctx context.Context) ([]models.IngestPage, error)

	// GetPendingByIDs retrieves the subset of the given pages still in
	// status pending.
	GetPendingByIDs(ctx context.Context, ids []string) ([]models.IngestPage, error)

	// UpdateContent stores reviewer-corrected page content.
	UpdateContent(ctx context.Context, id, content string) error

	// UpdateStatusByIDs sets the status of every listed page.
	UpdateStatusByIDs(ctx context.Context, ids []string, status models.Status) error
}
