// internal/core/ports/catalog_service.go
package ports

import (
	"context"

	"github.com/adekola/stockpoint-be/internal/core/domain"
)

// SkippedProduct records a product rejected during a batch create and
// why it was skipped.
type SkippedProduct struct {
	ProductName string `json:"product_name"`
	Reason      string `json:"reason"`
}

// CreateProductsResult summarizes a batch product create.
type CreateProductsResult struct {
	Added   int              `json:"added"`
	Skipped []SkippedProduct `json:"skipped,omitempty"`
}

// ProductsPage is one page of a product listing.
type ProductsPage struct {
	Products   []domain.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CatalogService defines the application service port for product and
// category administration.
type CatalogService interface {
	CreateProducts(ctx context.Context, role domain.Role, products []domain.Product) (*CreateProductsResult, error)
	UpdateProduct(ctx context.Context, role domain.Role, productID string, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, limit int, cursor string) (*ProductsPage, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	CreateCategory(ctx context.Context, role domain.Role, category *domain.Category) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
