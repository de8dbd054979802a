package docs

import (
	"context"
	"sort"

	"docbase/internal/domain/models"
)

// ListDocuments fetches all document headers with their version history and
// resolves each document's current version. Soft-deleted documents are
// excluded unless includeDeleted is set.
func (s *documentService) ListDocuments(ctx context.Context, includeDeleted bool) ([]models.Document, error) {
	headers, err := s.docRepo.List(ctx, includeDeleted)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []models.Document{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}

	versions, err := s.versionRepo.ListByDocumentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.DocumentVersion, len(headers))
	for _, v := range versions {
		grouped[v.DocumentID] = append(grouped[v.DocumentID], v)
	}

	docs := make([]models.Document, 0, len(headers))
	for _, h := range headers {
		doc := assembleDocument(h, grouped[h.ID])
		if len(grouped[h.ID]) == 0 {
			s.logger.Warn("document has no version rows, synthesizing from header",
				"document_id", h.ID, "title", h.Title)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// assembleDocument attaches a document's versions sorted newest first and
// resolves its current version: the first active version, else the newest.
// A document with no version rows gets a version synthesized from its
// header so the aggregate invariant (current version always set) holds.
func assembleDocument(header models.Document, versions []models.DocumentVersion) models.Document {
	doc := header

	sorted := make([]models.DocumentVersion, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	for i := range sorted {
		if sorted[i].Filename == "" {
			sorted[i].Filename = models.FilenameFromStoragePath(sorted[i].StoragePath)
		}
	}

	if len(sorted) == 0 {
		doc.CurrentVersion = synthesizeVersion(header)
		doc.Versions = []models.DocumentVersion{doc.CurrentVersion}
		return doc
	}

	doc.Versions = sorted
	doc.CurrentVersion = sorted[0]
	for _, v := range sorted {
		if v.Status == models.StatusActive {
			doc.CurrentVersion = v
			break
		}
	}

	return doc
}

func synthesizeVersion(header models.Document) models.DocumentVersion {
	return models.DocumentVersion{
		ID:          header.ID,
		DocumentID:  header.ID,
		Label:       "1.0",
		Filename:    header.Filename,
		StoragePath: header.StoragePath,
		Size:        header.Size,
		UploadedBy:  header.UploadedBy,
		Status:      header.Status,
		CreatedAt:   header.CreatedAt,
	}
}
