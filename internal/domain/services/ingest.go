package services

import (
	"context"

	"docbase/internal/domain/models"
)

// IngestService runs the scanned-page review queue: corrected OCR content is
// approved here and handed to the vectorization workflow.
type IngestService interface {
	// ListPending returns review-queue pages awaiting correction, oldest
	// first, with owning-document info joined in.
	ListPending(ctx context.Context) ([]models.IngestPage, error)

	// UpdateContent stores reviewer-corrected page content.
	UpdateContent(ctx context.Context, id, content string) error

	// Approve marks the pages processing and sends their vectorization
	// text downstream. On delivery failure the pages revert to pending.
	// Returns the number of pages sent.
	Approve(ctx context.Context, pageIDs []string) (int, error)

	// CompleteProcessing is the workflow callback after a document was
	// vectorized: version and document become active on success, inactive
	// on failure.
	CompleteProcessing(ctx context.Context, documentID, versionID string, success bool) error
}
