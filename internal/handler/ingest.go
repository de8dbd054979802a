package handler

import (
	"log/slog"
	"net/http"

	"docbase/internal/domain/services"
	"docbase/internal/httputil"
	"docbase/internal/observability/metrics"
)

// IngestHandler handles HTTP requests for the review queue and the
// processing-workflow callback
type IngestHandler struct {
	ingestService services.IngestService
	metrics       *metrics.HTTPServerMetrics
	logger        *slog.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService services.IngestService, m *metrics.HTTPServerMetrics, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		metrics:       m,
		logger:        logger,
	}
}

// ListPending returns review-queue pages awaiting correction
func (h *IngestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pages, err := h.ingestService.ListPending(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"pages": pages})
}

type updateContentRequest struct {
	Content string `json:"content"`
}

// UpdateContent stores reviewer-corrected page content
func (h *IngestHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "page ID is required")
		return
	}

	var req updateContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ingestService.UpdateContent(r.Context(), id, req.Content); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type approveRequest struct {
	PageIDs []string `json:"page_ids"`
}

// Approve sends the selected pages downstream for vectorization
func (h *IngestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.ingestService.Approve(r.Context(), req.PageIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPagesApproved(count)
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]int{"approved": count})
}

type processedCallbackRequest struct {
	DocumentID string `json:"document_id"`
	VersionID  string `json:"version_id"`
	Success    bool   `json:"success"`
}

// DocumentProcessed is the workflow callback after vectorization finished
func (h *IngestHandler) DocumentProcessed(w http.ResponseWriter, r *http.Request) {
	var req processedCallbackRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ingestService.CompleteProcessing(r.Context(), req.DocumentID, req.VersionID, req.Success); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}
