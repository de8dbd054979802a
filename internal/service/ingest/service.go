package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
	"docbase/internal/domain/services"
)

// ingestService implements the IngestService interface.
type ingestService struct {
	ingestRepo  repositories.IngestRepository
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	notifier    repositories.WorkflowNotifier
	logger      *slog.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(
	ingestRepo repositories.IngestRepository,
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	notifier repositories.WorkflowNotifier,
	logger *slog.Logger,
) services.IngestService {
	return &ingestService{
		ingestRepo:  ingestRepo,
		docRepo:     docRepo,
		versionRepo: versionRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// ListPending returns review-queue pages oldest first with owning-document
// title and category joined in.
func (s *ingestService) ListPending(ctx context.Context) ([]models.IngestPage, error) {
	return s.ingestRepo.ListPending(ctx)
}

// UpdateContent stores reviewer-corrected page content.
func (s *ingestService) UpdateContent(ctx context.Context, id, content string) error {
	if content == "" {
		return fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if err := s.ingestRepo.UpdateContent(ctx, id, content); err != nil {
		return err
	}
	s.logger.Info("ingest page content updated", "page_id", id)
	return nil
}

// Approve marks the pages processing and delivers their vectorization text
// downstream. When delivery fails the pages revert to pending so a reviewer
// can retry.
func (s *ingestService) Approve(ctx context.Context, pageIDs []string) (int, error) {
	if len(pageIDs) == 0 {
		return 0, fmt.Errorf("%w: no page ids given", domain.ErrValidation)
	}

	pages, err := s.ingestRepo.GetPendingByIDs(ctx, pageIDs)
	if err != nil {
		return 0, err
	}
	if len(pages) == 0 {
		return 0, fmt.Errorf("%w: no pending pages match the given ids", domain.ErrNotFound)
	}

	ids := make([]string, len(pages))
	payloads := make([]repositories.PagePayload, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
		payloads[i] = repositories.PagePayload{
			ID:         p.ID,
			Filename:   p.Filename,
			ImageURL:   p.ImageURL,
			Content:    models.PageVectorText(p.Content),
			PageNumber: p.PageNumber,
			DocumentID: p.DocumentID,
		}
	}

	if err := s.ingestRepo.UpdateStatusByIDs(ctx, ids, models.StatusProcessing); err != nil {
		return 0, err
	}

	if err := s.notifier.SendPages(ctx, payloads); err != nil {
		if revertErr := s.ingestRepo.UpdateStatusByIDs(ctx, ids, models.StatusPending); revertErr != nil {
			s.logger.Error("failed to revert pages to pending after delivery failure",
				"page_ids", ids, "error", revertErr)
		}
		return 0, fmt.Errorf("sending pages for vectorization: %w", err)
	}

	s.logger.Info("ingest pages approved", "count", len(pages))
	return len(pages), nil
}

// CompleteProcessing applies the workflow's processing outcome to the
// version and its document: active on success, inactive on failure.
func (s *ingestService) CompleteProcessing(ctx context.Context, documentID, versionID string, success bool) error {
	if documentID == "" || versionID == "" {
		return fmt.Errorf("%w: document id and version id are required", domain.ErrValidation)
	}

	status := models.StatusActive
	if !success {
		status = models.StatusInactive
	}

	if err := s.versionRepo.UpdateStatus(ctx, versionID, status); err != nil {
		return err
	}
	if err := s.docRepo.UpdateStatus(ctx, documentID, status); err != nil {
		return err
	}

	s.logger.Info("document processing completed",
		"document_id", documentID, "version_id", versionID, "success", success)
	return nil
}
