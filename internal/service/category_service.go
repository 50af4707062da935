package service

import (
	"context"
	"net/url"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// CategoryService defines the business logic for category management
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, form url.Values) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, form url.Values) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	categories   repository.CategoryRepository
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	categories repository.CategoryRepository,
	queryTimeout time.Duration,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categories:   categories,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// ListCategories returns all categories ordered by name with product counts
func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	return s.categories.List(ctx)
}

// GetCategory retrieves one category with its product count
func (s *categoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	return s.categories.FindByID(ctx, id)
}

// CreateCategory validates and persists a new category
func (s *categoryService) CreateCategory(ctx context.Context, form url.Values) (*domain.Category, error) {
	input, fieldErrors := ValidateCategoryForm(form)
	if fieldErrors != nil {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	category := &domain.Category{
		Name:        input.Name,
		Description: input.Description,
	}

	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID))
	return category, nil
}

// UpdateCategory validates and rewrites an existing category
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, form url.Values) (*domain.Category, error) {
	input, fieldErrors := ValidateCategoryForm(form)
	if fieldErrors != nil {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	category := &domain.Category{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
	}

	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category updated", zap.Int64("category_id", id))
	return category, nil
}

// DeleteCategory removes a category that has no products
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	ctx, cancel := s.boundQuery(ctx)
	defer cancel()

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}

func (s *categoryService) boundQuery(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
