package service

import (
	"context"
	"io"
	"net/url"
	"time"

	"storefront/internal/assets"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize matches the storefront grid of nine products per page
	DefaultPageSize = 9
	MaxPageSize     = 100
)

// Upload is a single file received by the transport layer, not yet staged
// in the asset store.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Pagination describes the window a listing call returned
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// CatalogService orchestrates product rows and their image assets so that
// a mutation and its file side effect succeed or fail together from the
// caller's point of view.
type CatalogService interface {
	ListProducts(ctx context.Context, search string, page, pageSize int) ([]*domain.Product, *Pagination, error)
	AllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, form url.Values, upload *Upload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, form url.Values, upload *Upload) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	products     repository.ProductRepository
	assets       assets.Store
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	assetStore assets.Store,
	queryTimeout time.Duration,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		products:     products,
		assets:       assetStore,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// ListProducts returns one page of the (optionally filtered) catalog
func (s *catalogService) ListProducts(ctx context.Context, search string, page, pageSize int) ([]*domain.Product, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	products, total, err := s.products.List(ctx, repository.ProductFilter{
		Search:   search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, nil, err
	}

	pagination := &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	return products, pagination, nil
}

// AllProducts returns the whole catalog without pagination
func (s *catalogService) AllProducts(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	products, _, err := s.products.List(ctx, repository.ProductFilter{})
	return products, err
}

// GetProduct retrieves one product with its category embedded
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	return s.products.FindByID(ctx, id)
}

// CreateProduct validates the form, stages the uploaded image (if any) and
// persists the row. A staged file whose row never commits is deleted again
// as a compensating action.
func (s *catalogService) CreateProduct(ctx context.Context, form url.Values, upload *Upload) (*domain.Product, error) {
	input, fieldErrors := ValidateProductForm(form)
	if fieldErrors != nil {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	stored, err := s.stage(upload)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       stored,
		CategoryID:  input.CategoryID,
	}

	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	if err := s.products.Create(ctx, product); err != nil {
		s.discard(stored)
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Bool("has_image", stored != nil),
	)

	return s.withCategory(ctx, product)
}

// UpdateProduct rewrites a product's fields and, when a new image is
// uploaded, replaces the stored asset. The old asset is only removed after
// the row update has succeeded; if persistence fails the newly staged file
// is deleted instead and the old one stays intact.
func (s *catalogService) UpdateProduct(ctx context.Context, id int64, form url.Values, upload *Upload) (*domain.Product, error) {
	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input, fieldErrors := ValidateProductForm(form)
	if fieldErrors != nil {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	stored, err := s.stage(upload)
	if err != nil {
		return nil, err
	}

	image := existing.Image
	if stored != nil {
		image = stored
	}

	product := &domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       image,
		CategoryID:  input.CategoryID,
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.discard(stored)
		return nil, err
	}

	if stored != nil && existing.Image != nil {
		s.assets.Delete(*existing.Image)
	}

	s.logger.Info("Product updated",
		zap.Int64("product_id", id),
		zap.Bool("image_replaced", stored != nil),
	)

	return s.withCategory(ctx, product)
}

// DeleteProduct removes the row and then its asset. Asset removal is
// best-effort: the row is already gone, so a failed file delete is logged
// rather than surfaced.
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if existing.Image != nil {
		if !s.assets.Delete(*existing.Image) {
			s.logger.Warn("Product image already absent during delete",
				zap.Int64("product_id", id),
				zap.String("image", *existing.Image),
			)
		}
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

// stage saves an upload into the asset store, returning the stored name
func (s *catalogService) stage(upload *Upload) (*string, error) {
	if upload == nil {
		return nil, nil
	}

	name, err := s.assets.Save(upload.Filename, upload.Reader)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

// discard removes a staged file after a failed mutation
func (s *catalogService) discard(stored *string) {
	if stored != nil {
		s.assets.Delete(*stored)
	}
}

// withCategory reloads the product so the response embeds its category
func (s *catalogService) withCategory(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	reloaded, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		// The mutation itself succeeded; answer with what we have.
		s.logger.Warn("Failed to reload product after mutation",
			zap.Int64("product_id", product.ID),
			zap.Error(err),
		)
		return product, nil
	}
	return reloaded, nil
}

func (s *catalogService) boundQuery(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
