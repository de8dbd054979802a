package handler

import (
	"errors"
	"net/http"

	"docbase/internal/domain"
	"docbase/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrBackend):
		httputil.RespondError(w, http.StatusBadGateway, "backend failure")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
