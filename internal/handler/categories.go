package handler

import (
	"log/slog"
	"net/http"

	"docbase/internal/domain/services"
	"docbase/internal/httputil"
)

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService services.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// GetTree returns the derived category tree with document counts
func (h *CategoryHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categoryService.Tree(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

type createCategoryRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// CreateCategory stores an explicit category record
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.categoryService.Create(r.Context(), req.Path, req.Name, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"path": req.Path})
}

type renameCategoryRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

// RenameCategory replaces the last segment of a category path and cascades
// the new prefix to every affected document and stored category
func (h *CategoryHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	newPath, err := h.categoryService.Rename(r.Context(), req.Path, req.NewName)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"path": newPath})
}

type deleteCategoryRequest struct {
	Path string `json:"path"`
}

// DeleteCategory detaches every document in the subtree and removes the
// stored category records
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req deleteCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.categoryService.Delete(r.Context(), req.Path); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
