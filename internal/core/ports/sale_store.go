// internal/core/ports/sale_store.go
package ports

import (
	"context"
	"time"

	"github.com/adekola/stockpoint-be/internal/core/domain"
)

// SaleStore defines the persistence port for sales.
type SaleStore interface {
	// Get returns the sale by id, or domain.ErrNotFound.
	Get(ctx context.Context, salesID string) (*domain.Sale, error)

	// Put writes the sale record.
	Put(ctx context.Context, sale *domain.Sale) error

	// FindByDate returns all sales recorded on the given calendar day.
	FindByDate(ctx context.Context, day time.Time) ([]domain.Sale, error)

	// List returns a page of sales plus an opaque cursor for the next
	// page ("" when exhausted).
	List(ctx context.Context, limit int, cursor string) ([]domain.Sale, string, error)
}

// CategoryStore defines the persistence port for categories.
type CategoryStore interface {
	Put(ctx context.Context, category *domain.Category) error
	ExistsByName(ctx context.Context, categoryName string) (bool, error)
	List(ctx context.Context) ([]domain.Category, error)
}
