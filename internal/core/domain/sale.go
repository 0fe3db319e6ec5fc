// internal/core/domain/sale.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EditWindow is how long after dateSold a sale remains editable.
const EditWindow = 7 * 24 * time.Hour

// PriceTolerance bounds the accepted drift between a line item's stated
// total and quantity x unit price. A drift of exactly one cent is
// already a mismatch.
var PriceTolerance = decimal.NewFromFloat(0.01)

// LineItem is one product's quantity/price entry within a sale.
type LineItem struct {
	ProductID    string          `json:"product_id"`
	QuantitySold int             `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// Validate performs domain validation on the line item
func (li *LineItem) Validate() error {
	if li.ProductID == "" {
		return fmt.Errorf("product_id is required for each line item")
	}
	if li.QuantitySold <= 0 {
		return fmt.Errorf("quantity_sold must be greater than 0")
	}
	if li.TotalPrice.IsNegative() {
		return fmt.Errorf("total_price cannot be negative")
	}
	return nil
}

// PriceConsistent reports whether total_price matches
// quantity_sold x unit_price to strictly within PriceTolerance.
func (li *LineItem) PriceConsistent() bool {
	expected := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.QuantitySold)))
	return expected.Sub(li.TotalPrice).Abs().LessThan(PriceTolerance)
}

// Sale is a recorded sales transaction. Items are replaced wholesale on
// edit, never patched field by field, so the totals stay derivable.
type Sale struct {
	SalesID      string          `json:"sales_id"`
	Items        []LineItem      `json:"items"`
	QuantitySold int             `json:"quantity_sold"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	DateSold     time.Time       `json:"date_sold"`
	DateUpdated  time.Time       `json:"date_updated"`
}

// NewSale builds a sale from validated line items with derived totals.
func NewSale(items []LineItem) *Sale {
	now := time.Now()
	s := &Sale{
		SalesID:     uuid.New().String(),
		Items:       items,
		DateSold:    now,
		DateUpdated: now,
	}
	s.RecomputeTotals()
	return s
}

// RecomputeTotals rederives quantity_sold and total_price from the items.
func (s *Sale) RecomputeTotals() {
	s.QuantitySold = 0
	s.TotalPrice = decimal.Zero
	for i := range s.Items {
		s.QuantitySold += s.Items[i].QuantitySold
		s.TotalPrice = s.TotalPrice.Add(s.Items[i].TotalPrice)
	}
}

// Editable reports whether the sale is still inside its edit window.
func (s *Sale) Editable(now time.Time) bool {
	return now.Sub(s.DateSold) < EditWindow
}
