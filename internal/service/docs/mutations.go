package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docbase/internal/config"
	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
	"docbase/internal/domain/services"
	"docbase/internal/filetypes"
)

// documentService implements the DocumentService interface. Multi-step
// mutations are sequenced as independent backend calls ordered so that a
// failure midway leaves a recoverable state; there are no transactions.
type documentService struct {
	docRepo      repositories.DocumentRepository
	versionRepo  repositories.VersionRepository
	categoryRepo repositories.CategoryRepository
	blobs        repositories.BlobStore
	notifier     repositories.WorkflowNotifier
	types        *filetypes.Registry
	deletionMode config.DeletionMode
	locks        *keyedMutex
	logger       *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	categoryRepo repositories.CategoryRepository,
	blobs repositories.BlobStore,
	notifier repositories.WorkflowNotifier,
	types *filetypes.Registry,
	deletionMode config.DeletionMode,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:      docRepo,
		versionRepo:  versionRepo,
		categoryRepo: categoryRepo,
		blobs:        blobs,
		notifier:     notifier,
		types:        types,
		deletionMode: deletionMode,
		locks:        newKeyedMutex(),
		logger:       logger,
	}
}

// Upload stores the blob, then creates the document header and its first
// version, both pending. A version-insert failure after the header insert
// leaves a versionless document; the read path synthesizes one and warns.
func (s *documentService) Upload(ctx context.Context, req *services.UploadRequest) (*models.Document, error) {
	if err := s.validateUpload(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ext := models.ExtensionOf(req.Filename)
	if !s.types.Allowed(ext) {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, ext)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = s.types.ContentTypeFor(ext)
	}

	objectPath := blobObjectPath(req.OwnerID, req.Filename)
	storagePath, err := s.blobs.Store(ctx, objectPath, contentType, req.File)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = models.TitleFromFilename(req.Filename)
	}

	doc := &models.Document{
		Title:       title,
		Filename:    req.Filename,
		Extension:   ext,
		Category:    req.Category,
		StoragePath: storagePath,
		Size:        req.Size,
		UploadedBy:  req.OwnerID,
		Status:      models.StatusPending,
	}
	if err := s.docRepo.Insert(ctx, doc); err != nil {
		return nil, err
	}

	version := &models.DocumentVersion{
		DocumentID:  doc.ID,
		Label:       "1.0",
		Filename:    req.Filename,
		StoragePath: storagePath,
		Size:        req.Size,
		UploadedBy:  req.OwnerID,
		Status:      models.StatusPending,
	}
	if err := s.versionRepo.Insert(ctx, version); err != nil {
		return nil, err
	}

	doc.CurrentVersion = *version
	doc.Versions = []models.DocumentVersion{*version}

	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"version_id", version.ID,
		"filename", req.Filename,
		"category", req.Category,
		"size", req.Size,
	)

	s.notifyDocument(ctx, doc, version)

	return doc, nil
}

// Replace appends a new version to an existing document. The current version
// is deactivated before the new one is inserted: a crash in between leaves
// zero active versions, which a later rollback repairs.
func (s *documentService) Replace(ctx context.Context, req *services.ReplaceRequest) error {
	if err := s.validateReplace(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ext := models.ExtensionOf(req.Filename)
	if !s.types.Allowed(ext) {
		return fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, ext)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = s.types.ContentTypeFor(ext)
	}

	s.locks.Lock(req.DocumentID)
	defer s.locks.Unlock(req.DocumentID)

	doc, err := s.docRepo.Get(ctx, req.DocumentID)
	if err != nil {
		return err
	}

	objectPath := blobObjectPath(req.OwnerID, req.Filename)
	storagePath, err := s.blobs.Store(ctx, objectPath, contentType, req.File)
	if err != nil {
		return err
	}

	if err := s.versionRepo.UpdateStatus(ctx, req.CurrentVersionID, models.StatusInactive); err != nil {
		return err
	}

	count, err := s.versionRepo.CountByDocument(ctx, req.DocumentID)
	if err != nil {
		return err
	}

	version := &models.DocumentVersion{
		DocumentID:  req.DocumentID,
		Label:       fmt.Sprintf("%d.0", count+1),
		Filename:    req.Filename,
		StoragePath: storagePath,
		Size:        req.Size,
		UploadedBy:  req.OwnerID,
		Status:      models.StatusPending,
	}
	if err := s.versionRepo.Insert(ctx, version); err != nil {
		return err
	}

	title := req.Title
	if title == "" {
		title = doc.Title
	}
	category := req.Category
	pending := models.StatusPending
	update := models.DocumentHeaderUpdate{
		Title:       &title,
		Category:    &category,
		StoragePath: &storagePath,
		Size:        &req.Size,
		Status:      &pending,
	}
	if err := s.docRepo.UpdateHeader(ctx, req.DocumentID, update); err != nil {
		return err
	}

	s.logger.Info("document replaced",
		"document_id", req.DocumentID,
		"version_id", version.ID,
		"version", version.Label,
		"filename", req.Filename,
	)

	doc.Title = title
	doc.Category = category
	s.notifyDocument(ctx, doc, version)

	return nil
}

// UpdateStatus applies a status change to one version row and the document
// header, in that order.
func (s *documentService) UpdateStatus(ctx context.Context, documentID, versionID string, status models.Status) error {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusDeleted:
	default:
		return fmt.Errorf("%w: status %q not settable", domain.ErrValidation, status)
	}

	s.locks.Lock(documentID)
	defer s.locks.Unlock(documentID)

	if err := s.versionRepo.UpdateStatus(ctx, versionID, status); err != nil {
		return err
	}
	if err := s.docRepo.UpdateStatus(ctx, documentID, status); err != nil {
		return err
	}

	s.logger.Info("document status updated",
		"document_id", documentID, "version_id", versionID, "status", status)
	return nil
}

// UpdateCategory moves a document to a category path and makes sure every
// ancestor of that path exists as a stored category.
func (s *documentService) UpdateCategory(ctx context.Context, documentID, category, ownerID string) error {
	if category == models.UncategorizedFilter {
		return fmt.Errorf("%w: %q is a reserved filter value", domain.ErrValidation, category)
	}

	if err := s.docRepo.UpdateCategory(ctx, documentID, category); err != nil {
		return err
	}

	for _, path := range models.AncestorPaths(category) {
		cat := &models.StoredCategory{
			Path:      path,
			Name:      models.LastSegment(path),
			CreatedBy: ownerID,
		}
		if err := s.categoryRepo.Upsert(ctx, cat); err != nil {
			return err
		}
	}

	s.logger.Info("document category updated",
		"document_id", documentID, "category", category)
	return nil
}

// Rollback reactivates a prior version: every newer version goes inactive,
// the target goes active, and the document header takes over the target's
// storage path.
func (s *documentService) Rollback(ctx context.Context, req *services.RollbackRequest) error {
	s.locks.Lock(req.DocumentID)
	defer s.locks.Unlock(req.DocumentID)

	target, err := s.versionRepo.Get(ctx, req.TargetVersionID)
	if err != nil {
		return err
	}
	if target.DocumentID != req.DocumentID {
		return fmt.Errorf("%w: version %s does not belong to document %s",
			domain.ErrValidation, req.TargetVersionID, req.DocumentID)
	}
	if target.Status == models.StatusActive && len(req.NewerVersionIDs) == 0 {
		return &domain.ConflictError{
			Message:      "version is already the active version",
			ResourceType: "version",
			ResourceID:   target.ID,
		}
	}

	if err := s.versionRepo.UpdateStatusByIDs(ctx, req.NewerVersionIDs, models.StatusInactive); err != nil {
		return err
	}
	if err := s.versionRepo.UpdateStatus(ctx, target.ID, models.StatusActive); err != nil {
		return err
	}

	active := models.StatusActive
	update := models.DocumentHeaderUpdate{
		StoragePath: &target.StoragePath,
		Size:        &target.Size,
		Status:      &active,
	}
	if err := s.docRepo.UpdateHeader(ctx, req.DocumentID, update); err != nil {
		return err
	}

	s.logger.Info("document rolled back",
		"document_id", req.DocumentID,
		"target_version_id", target.ID,
		"deactivated", len(req.NewerVersionIDs),
	)
	return nil
}

// Delete removes a document according to the configured deletion mode:
// soft marks every version and the header deleted, hard removes the rows.
func (s *documentService) Delete(ctx context.Context, documentID string) error {
	s.locks.Lock(documentID)
	defer s.locks.Unlock(documentID)

	if s.deletionMode == config.DeletionModeHard {
		return s.hardDelete(ctx, documentID)
	}

	if err := s.versionRepo.UpdateStatusByDocument(ctx, documentID, models.StatusDeleted); err != nil {
		return err
	}
	if err := s.docRepo.UpdateStatus(ctx, documentID, models.StatusDeleted); err != nil {
		return err
	}

	s.logger.Info("document soft-deleted", "document_id", documentID)
	return nil
}

// Purge permanently removes the document and its versions regardless of the
// configured deletion mode.
func (s *documentService) Purge(ctx context.Context, documentID string) error {
	s.locks.Lock(documentID)
	defer s.locks.Unlock(documentID)

	return s.hardDelete(ctx, documentID)
}

// hardDelete removes version rows before the document row they reference.
func (s *documentService) hardDelete(ctx context.Context, documentID string) error {
	if err := s.versionRepo.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, documentID); err != nil {
		return err
	}

	s.logger.Info("document hard-deleted", "document_id", documentID)
	return nil
}

// notifyDocument hands the new version to the external processing workflow.
// Delivery failure is logged, never surfaced: the document stays pending and
// can be re-sent.
func (s *documentService) notifyDocument(ctx context.Context, doc *models.Document, version *models.DocumentVersion) {
	if s.notifier == nil {
		return
	}

	event := repositories.DocumentEvent{
		DocumentID: doc.ID,
		VersionID:  version.ID,
		Title:      doc.Title,
		Filename:   version.Filename,
		Category:   doc.Category,
		FileURL:    s.blobs.PublicURL(version.StoragePath),
		Version:    version.Label,
	}
	if err := s.notifier.NotifyDocument(ctx, event); err != nil {
		s.logger.Warn("workflow notification failed",
			"document_id", doc.ID, "version_id", version.ID, "error", err)
	}
}

func (s *documentService) validateUpload(req *services.UploadRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.File, validation.Required),
		validation.Field(&req.Filename,
			validation.Required,
			validation.Length(1, config.MaxFilenameLength),
		),
		validation.Field(&req.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&req.Category, validation.Length(0, config.MaxCategoryPathLength)),
		validation.Field(&req.Size, validation.Required, validation.Min(int64(1))),
	)
}

func (s *documentService) validateReplace(req *services.ReplaceRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.CurrentVersionID, validation.Required),
		validation.Field(&req.File, validation.Required),
		validation.Field(&req.Filename,
			validation.Required,
			validation.Length(1, config.MaxFilenameLength),
		),
		validation.Field(&req.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&req.Category, validation.Length(0, config.MaxCategoryPathLength)),
		validation.Field(&req.Size, validation.Required, validation.Min(int64(1))),
	)
}

// blobObjectPath builds the storage object path for an upload. The timestamp
// prefix keeps repeated uploads of one filename from colliding.
func blobObjectPath(ownerID, filename string) string {
	owner := ownerID
	if owner == "" {
		owner = "anonymous"
	}
	return fmt.Sprintf("documents/%s/%d_%s", owner, time.Now().UnixMilli(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, name)
}
