package transport

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/assets"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// respondServiceError maps the service error taxonomy onto HTTP status
// codes and envelopes. Unexpected errors are logged with context and
// answered with a generic message so no internal detail leaks out.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var validationErr *service.ValidationError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		middleware.RespondWithFieldErrors(w, validationErr.Fields)
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "Category with this name already exists")
	case errors.Is(err, repository.ErrCategoryInUse):
		middleware.RespondWithError(w, http.StatusConflict, "Cannot delete a category that still has products")
	case errors.Is(err, repository.ErrCategoryReference):
		middleware.RespondWithFieldErrors(w, map[string]string{
			"categoryId": "Valid category is required",
		})
	case errors.Is(err, assets.ErrInvalidAssetType):
		middleware.RespondWithError(w, http.StatusBadRequest, "Only image files are allowed")
	case errors.Is(err, assets.ErrAssetTooLarge), errors.As(err, &maxBytesErr):
		middleware.RespondWithError(w, http.StatusBadRequest, "File too large. Max 5MB")
	case errors.Is(err, context.DeadlineExceeded):
		middleware.RespondWithError(w, http.StatusGatewayTimeout, "Storage timed out, please retry")
	default:
		logger.Error("Unexpected error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// wantsHTML reports whether the client is a browser form submission that
// expects a redirect instead of a JSON envelope.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// urlParamID extracts the integer {id} route parameter
func urlParamID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
