// internal/core/domain/product.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a single stocked product. Quantity is a resource
// counter: it is only ever changed through the inventory ledger, and it
// never goes negative.
type Product struct {
	ProductID        string          `json:"product_id"`
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name,omitempty"`
	ProductName      string          `json:"product_name"`
	UnitCostPrice    decimal.Decimal `json:"unit_cost_price"`
	UnitSellingPrice decimal.Decimal `json:"unit_selling_price"`
	Quantity         int             `json:"quantity"`
	DateAdded        time.Time       `json:"date_added"`
	DateUpdated      time.Time       `json:"date_updated"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if p.ProductName == "" {
		return fmt.Errorf("product_name is required")
	}
	if p.CategoryID == "" {
		return fmt.Errorf("category_id is required")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if p.UnitCostPrice.IsNegative() {
		return fmt.Errorf("unit_cost_price cannot be negative")
	}
	if p.UnitSellingPrice.IsNegative() {
		return fmt.Errorf("unit_selling_price cannot be negative")
	}
	return nil
}

// PrepareForStorage prepares the product for persistence
func (p *Product) PrepareForStorage() {
	if p.ProductID == "" {
		p.ProductID = uuid.New().String()
	}

	now := time.Now()
	if p.DateAdded.IsZero() {
		p.DateAdded = now
	}
	p.DateUpdated = now
}

// Category groups products; names are unique within a category id.
type Category struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Validate performs domain validation on the category
func (c *Category) Validate() error {
	if c.CategoryName == "" {
		return fmt.Errorf("category_name is required")
	}
	return nil
}
