// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
)

const productCacheTTL = 5 * time.Minute

// CatalogService handles product and category administration. Stock
// quantities are seeded at create time; afterwards they move only
// through the inventory ledger.
type CatalogService struct {
	products   ports.ProductStore
	categories ports.CategoryStore
	cache      ports.CacheRepository
	logger     *slog.Logger
}

// Statically assert that *CatalogService implements the CatalogService interface.
var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(products ports.ProductStore, categories ports.CategoryStore, cache ports.CacheRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      cache,
		logger:     logger.With(slog.String("service", "catalog")),
	}
}

// CreateProducts saves a batch of products. Invalid entries and
// duplicates on (category_id, product_name) are skipped and reported,
// not fatal, so a partially good batch still lands.
func (s *CatalogService) CreateProducts(ctx context.Context, role domain.Role, products []domain.Product) (*ports.CreateProductsResult, error) {
	if !role.CanManageCatalog() {
		return nil, fmt.Errorf("role %q cannot manage the catalog: %w", role, domain.ErrUnauthorized)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products provided: %w", domain.ErrBadRequest)
	}

	result := &ports.CreateProductsResult{}
	for i := range products {
		p := products[i]
		if err := p.Validate(); err != nil {
			result.Skipped = append(result.Skipped, ports.SkippedProduct{
				ProductName: p.ProductName,
				Reason:      err.Error(),
			})
			continue
		}

		exists, err := s.products.ExistsByCategoryAndName(ctx, p.CategoryID, p.ProductName)
		if err != nil {
			return nil, fmt.Errorf("check duplicate for %q: %w", p.ProductName, err)
		}
		if exists {
			result.Skipped = append(result.Skipped, ports.SkippedProduct{
				ProductName: p.ProductName,
				Reason:      "product already exists in category",
			})
			continue
		}

		p.PrepareForStorage()
		if err := s.products.Put(ctx, &p); err != nil {
			return nil, fmt.Errorf("save product %q: %w", p.ProductName, err)
		}
		result.Added++
	}

	s.logger.InfoContext(ctx, "products created",
		slog.Int("added", result.Added),
		slog.Int("skipped", len(result.Skipped)))

	return result, nil
}

// UpdateProduct replaces a product's descriptive fields. The stored
// quantity is preserved; only the ledger moves it.
func (s *CatalogService) UpdateProduct(ctx context.Context, role domain.Role, productID string, product *domain.Product) (*domain.Product, error) {
	if !role.CanManageCatalog() {
		return nil, fmt.Errorf("role %q cannot manage the catalog: %w", role, domain.ErrUnauthorized)
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	current, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("read product %s: %w", productID, err)
	}

	product.ProductID = productID
	product.Quantity = current.Quantity
	product.DateAdded = current.DateAdded
	product.DateUpdated = time.Now()

	if err := s.products.Put(ctx, product); err != nil {
		return nil, fmt.Errorf("update product %s: %w", productID, err)
	}

	s.invalidate(ctx, productID)

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", productID),
		slog.String("product_name", product.ProductName))

	return product, nil
}

// GetProduct returns a product by id, reading through the cache.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("product_id is required: %w", domain.ErrBadRequest)
	}

	if s.cache == nil {
		return s.products.Get(ctx, productID)
	}

	var product domain.Product
	err := s.cache.GetOrSet(ctx, productCacheKey(productID), &product, func() (interface{}, error) {
		p, err := s.products.Get(ctx, productID)
		if err != nil {
			return nil, err
		}
		return p, nil
	}, productCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("read product %s: %w", productID, err)
	}
	return &product, nil
}

// ListProducts returns one page of products.
func (s *CatalogService) ListProducts(ctx context.Context, limit int, cursor string) (*ports.ProductsPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	products, next, err := s.products.List(ctx, limit, cursor)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ports.ProductsPage{Products: products, NextCursor: next}, nil
}

// ProductsByCategory returns all products in a category.
func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("category_id is required: %w", domain.ErrBadRequest)
	}
	products, err := s.products.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query category %s: %w", categoryID, err)
	}
	return products, nil
}

// CreateCategory creates a category, rejecting duplicate names.
func (s *CatalogService) CreateCategory(ctx context.Context, role domain.Role, category *domain.Category) (*domain.Category, error) {
	if !role.CanManageCatalog() {
		return nil, fmt.Errorf("role %q cannot manage the catalog: %w", role, domain.ErrUnauthorized)
	}
	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	exists, err := s.categories.ExistsByName(ctx, category.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("check duplicate category %q: %w", category.CategoryName, err)
	}
	if exists {
		return nil, fmt.Errorf("category %q already exists: %w", category.CategoryName, domain.ErrBadRequest)
	}

	if category.CategoryID == "" {
		category.CategoryID = uuid.New().String()
	}
	if err := s.categories.Put(ctx, category); err != nil {
		return nil, fmt.Errorf("save category %q: %w", category.CategoryName, err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.CategoryID),
		slog.String("category_name", category.CategoryName))

	return category, nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) invalidate(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productCacheKey(productID)); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate product cache",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
	}
}

func productCacheKey(productID string) string {
	return "product:" + productID
}
