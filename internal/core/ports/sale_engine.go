// internal/core/ports/sale_engine.go
package ports

import (
	"context"
	"time"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryLedger owns the read-modify-write discipline for the stock
// counter of a single product.
type InventoryLedger interface {
	// ApplyDelta applies a signed quantity delta to one product.
	// Negative deltas are deductions and must not take the quantity
	// below zero. unitPrice/lineTotal are the line item's stated
	// prices, validated against each other before any write.
	ApplyDelta(ctx context.Context, productID string, delta int, unitPrice, lineTotal decimal.Decimal) error
}

// SalesPage is one page of a sales listing.
type SalesPage struct {
	Sales      []domain.Sale `json:"sales"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// SaleEngine defines the application service port for sales
// transactions. This interface is implemented by the sales service.
type SaleEngine interface {
	CreateSale(ctx context.Context, role domain.Role, items []domain.LineItem) (*domain.Sale, error)
	EditSale(ctx context.Context, role domain.Role, salesID string, items []domain.LineItem) (*domain.Sale, error)
	GetSale(ctx context.Context, salesID string) (*domain.Sale, error)
	ListSales(ctx context.Context, limit int, cursor string) (*SalesPage, error)
	FilterSalesByDate(ctx context.Context, start, end time.Time) ([]domain.Sale, error)
}
