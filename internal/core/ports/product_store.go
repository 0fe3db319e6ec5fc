// internal/core/ports/product_store.go
package ports

import (
	"context"

	"github.com/adekola/stockpoint-be/internal/core/domain"
)

// ProductStore defines the persistence port for products. The backing
// document store offers single-item atomic writes only; ConditionalPut
// is the one concurrency primitive the ledger builds on.
type ProductStore interface {
	// Get returns the product by id, or domain.ErrNotFound.
	Get(ctx context.Context, productID string) (*domain.Product, error)

	// Put writes the product unconditionally.
	Put(ctx context.Context, product *domain.Product) error

	// ConditionalPut writes the product only if the stored quantity
	// still equals expectedQuantity. Returns domain.ErrConflict when
	// the condition fails.
	ConditionalPut(ctx context.Context, product *domain.Product, expectedQuantity int) error

	// FindByCategory returns all products in a category.
	FindByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)

	// ExistsByCategoryAndName reports whether a product with the given
	// name already exists in the category.
	ExistsByCategoryAndName(ctx context.Context, categoryID, productName string) (bool, error)

	// List returns a page of products plus an opaque cursor for the
	// next page ("" when exhausted).
	List(ctx context.Context, limit int, cursor string) ([]domain.Product, string, error)
}
