package handler

import (
	"log/slog"
	"net/http"

	"docbase/internal/domain/models"
	"docbase/internal/domain/services"
	"docbase/internal/httputil"
	"docbase/internal/observability/metrics"
	"docbase/internal/service/docs"
)

// DocumentHandler handles HTTP requests for document operations
type DocumentHandler struct {
	docService services.DocumentService
	metrics    *metrics.HTTPServerMetrics
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, m *metrics.HTTPServerMetrics, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		metrics:    m,
		logger:     logger,
	}
}

// HealthCheck responds with a simple status for load balancer probes
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listResponse is the projected document list plus the sidebar aggregates.
type listResponse struct {
	Documents  []models.Document `json:"documents"`
	Counts     docs.StatusCounts `json:"counts"`
	Extensions []string          `json:"extensions"`
	Total      int               `json:"total"`
}

// ListDocuments returns the filtered, sorted document list. Counts and the
// extension list are computed over the unfiltered set.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	showDeleted := q.Get("show_deleted") == "true"

	all, err := h.docService.ListDocuments(r.Context(), showDeleted)
	if err != nil {
		handleError(w, err)
		return
	}

	filter := docs.Filter{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		Extension:   q.Get("extension"),
		Category:    q.Get("category"),
		ShowDeleted: showDeleted,
	}
	sortSpec := docs.Sort{
		Field:     docs.SortField(q.Get("sort")),
		Direction: docs.SortDirection(q.Get("direction")),
	}
	if sortSpec.Field == "" {
		sortSpec.Field = docs.SortByDate
	}
	if sortSpec.Direction == "" {
		sortSpec.Direction = docs.SortDesc
	}

	projected := docs.ProjectDocuments(all, filter, sortSpec)
	if h.metrics != nil {
		h.metrics.RecordListSize(len(projected))
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse{
		Documents:  projected,
		Counts:     docs.CountByStatus(all),
		Extensions: models.UniqueExtensions(all),
		Total:      len(all),
	})
}

// UploadDocument accepts a multipart upload and creates a pending document
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	req := &services.UploadRequest{
		File:        file,
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		OwnerID:     httputil.GetUserID(r),
	}

	doc, err := h.docService.Upload(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordUpload("docbase", "new")
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ReplaceDocument accepts a multipart upload as the next version of an
// existing document
func (h *DocumentHandler) ReplaceDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	req := &services.ReplaceRequest{
		DocumentID:       id,
		CurrentVersionID: r.FormValue("current_version_id"),
		File:             file,
		Filename:         fileHeader.Filename,
		Size:             fileHeader.Size,
		ContentType:      fileHeader.Header.Get("Content-Type"),
		Title:            r.FormValue("title"),
		Category:         r.FormValue("category"),
		OwnerID:          httputil.GetUserID(r),
	}

	if err := h.docService.Replace(r.Context(), req); err != nil {
		handleError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordUpload("docbase", "replace")
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "replaced"})
}

type updateStatusRequest struct {
	VersionID string `json:"version_id"`
	Status    string `json:"status"`
}

// UpdateStatus applies a status change to a version and its document
func (h *DocumentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req updateStatusRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.docService.UpdateStatus(r.Context(), id, req.VersionID, status); err != nil {
		handleError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordMutation("docbase", "update_status")
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type updateCategoryRequest struct {
	Category httputil.OptionalString `json:"category"`
}

// UpdateCategory moves a document to a category; null or "" detaches it
func (h *DocumentHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req updateCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Category.Present {
		httputil.RespondError(w, http.StatusBadRequest, "category field is required")
		return
	}

	category := ""
	if req.Category.Value != nil {
		category = *req.Category.Value
	}

	if err := h.docService.UpdateCategory(r.Context(), id, category, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordMutation("docbase", "update_category")
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type rollbackRequest struct {
	TargetVersionID string   `json:"target_version_id"`
	NewerVersionIDs []string `json:"newer_version_ids"`
}

// RollbackDocument reactivates a prior version
func (h *DocumentHandler) RollbackDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req rollbackRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TargetVersionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "target_version_id is required")
		return
	}

	err := h.docService.Rollback(r.Context(), &services.RollbackRequest{
		DocumentID:      id,
		TargetVersionID: req.TargetVersionID,
		NewerVersionIDs: req.NewerVersionIDs,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordMutation("docbase", "rollback")
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "rolled_back"})
}

// DeleteDocument removes a document per the configured deletion mode;
// ?purge=true always hard-deletes
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var err error
	if r.URL.Query().Get("purge") == "true" {
		err = h.docService.Purge(r.Context(), id)
	} else {
		err = h.docService.Delete(r.Context(), id)
	}
	if err != nil {
		handleError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordMutation("docbase", "delete")
	}
	w.WriteHeader(http.StatusNoContent)
}
