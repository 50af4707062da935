package transport

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// formOverheadBytes is slack on top of the image size cap for the
// non-file fields of a multipart submission.
const formOverheadBytes = 1 << 20

// ProductListResponse is the payload for a paginated listing
type ProductListResponse struct {
	Products   interface{}         `json:"products"`
	Pagination *service.Pagination `json:"pagination"`
	Search     string              `json:"search"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	catalog    service.CatalogService
	categories service.CategoryService
	maxUpload  int64
	logger     *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(
	catalog service.CatalogService,
	categories service.CategoryService,
	maxUpload int64,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		catalog:    catalog,
		categories: categories,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		// Form-data endpoints must come before the {id} routes
		r.Get("/create", h.CreateFormData)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Get("/edit", h.EditFormData)
		})
	})

	r.Get("/api/products", h.ListAll)
}

// List handles GET /products with optional search and pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	search := query.Get("search")
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("limit"))

	products, pagination, err := h.catalog.ListProducts(r.Context(), search, page, pageSize)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, ProductListResponse{
		Products:   products,
		Pagination: pagination,
		Search:     search,
	})
}

// ListAll handles GET /api/products, the unpaginated dump
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.AllProducts(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, products)
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, product)
}

// Create handles POST /products with an optional multipart image field
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	upload, closeUpload, err := h.parseProductForm(w, r)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	defer closeUpload()

	product, err := h.catalog.CreateProduct(r.Context(), r.PostForm, upload)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	middleware.RespondWithData(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id} with an optional multipart image field
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	upload, closeUpload, err := h.parseProductForm(w, r)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	defer closeUpload()

	product, err := h.catalog.UpdateProduct(r.Context(), id, r.PostForm, upload)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	middleware.RespondWithMessage(w, http.StatusOK, "Product deleted")
}

// CreateFormData handles GET /products/create: the data a create form needs
func (h *ProductHandler) CreateFormData(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// EditFormData handles GET /products/{id}/edit: the data an edit form needs
func (h *ProductHandler) EditFormData(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"product":    product,
		"categories": categories,
	})
}

// parseProductForm reads a product submission, multipart or urlencoded,
// and extracts the optional single image file. The body is capped before
// any parsing so oversized uploads are refused during transfer.
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (*service.Upload, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+formOverheadBytes)

	if err := r.ParseMultipartForm(h.maxUpload + formOverheadBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			if err := r.ParseForm(); err != nil {
				return nil, noop, err
			}
			return nil, noop, nil
		}
		return nil, noop, err
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, noop, nil
	}

	file, err := files[0].Open()
	if err != nil {
		return nil, noop, err
	}

	upload := &service.Upload{
		Filename: files[0].Filename,
		Reader:   file,
	}

	return upload, func() { closeUploadFile(file) }, nil
}

func closeUploadFile(f multipart.File) {
	_ = f.Close()
}
