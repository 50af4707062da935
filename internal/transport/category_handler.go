package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Get("/edit", h.EditFormData)
		})
	})

	r.Get("/api/categories", h.ListAll)
}

// List handles GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, categories)
}

// ListAll handles GET /api/categories, the unpaginated dump
func (h *CategoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.List(w, r)
}

// Get handles GET /categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	category, err := h.categories.GetCategory(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, category)
}

// Create handles POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), r.PostForm)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
		return
	}

	middleware.RespondWithData(w, http.StatusCreated, category)
}

// Update handles PUT /categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), id, r.PostForm)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, category)
}

// Delete handles DELETE /categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
		return
	}

	middleware.RespondWithMessage(w, http.StatusOK, "Category deleted")
}

// EditFormData handles GET /categories/{id}/edit: the data an edit form needs
func (h *CategoryHandler) EditFormData(w http.ResponseWriter, r *http.Request) {
	h.Get(w, r)
}
