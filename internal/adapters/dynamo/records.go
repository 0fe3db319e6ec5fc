// internal/adapters/dynamo/records.go
package dynamo

import (
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/adekola/stockpoint-be/internal/core/domain"
)

// Monetary amounts are stored as decimal strings and timestamps as
// RFC3339 so that records round-trip without float drift.

type productRecord struct {
	ProductID        string `dynamodbav:"product_id"`
	CategoryID       string `dynamodbav:"category_id"`
	CategoryName     string `dynamodbav:"category_name"`
	ProductName      string `dynamodbav:"product_name"`
	UnitCostPrice    string `dynamodbav:"unit_cost_price"`
	UnitSellingPrice string `dynamodbav:"unit_selling_price"`
	Quantity         int    `dynamodbav:"quantity"`
	DateAdded        string `dynamodbav:"date_added"`
	DateUpdated      string `dynamodbav:"date_updated"`
}

type lineItemRecord struct {
	ProductID    string `dynamodbav:"product_id"`
	QuantitySold int    `dynamodbav:"quantity_sold"`
	UnitPrice    string `dynamodbav:"unit_price"`
	TotalPrice   string `dynamodbav:"total_price"`
}

type saleRecord struct {
	SalesID      string           `dynamodbav:"sales_id"`
	Items        []lineItemRecord `dynamodbav:"items"`
	QuantitySold int              `dynamodbav:"quantity_sold"`
	TotalPrice   string           `dynamodbav:"total_price"`
	DateSold     string           `dynamodbav:"date_sold"`
	SoldOn       string           `dynamodbav:"sold_on"`
	DateUpdated  string           `dynamodbav:"date_updated"`
}

type categoryRecord struct {
	CategoryID   string `dynamodbav:"category_id"`
	CategoryName string `dynamodbav:"category_name"`
}

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ProductID:        p.ProductID,
		CategoryID:       p.CategoryID,
		CategoryName:     p.CategoryName,
		ProductName:      p.ProductName,
		UnitCostPrice:    p.UnitCostPrice.String(),
		UnitSellingPrice: p.UnitSellingPrice.String(),
		Quantity:         p.Quantity,
		DateAdded:        p.DateAdded.UTC().Format(time.RFC3339),
		DateUpdated:      p.DateUpdated.UTC().Format(time.RFC3339),
	}
}

func (r productRecord) toDomain() (*domain.Product, error) {
	cost, err := decimal.NewFromString(r.UnitCostPrice)
	if err != nil {
		return nil, fmt.Errorf("parse unit_cost_price for %s: %w", r.ProductID, err)
	}
	selling, err := decimal.NewFromString(r.UnitSellingPrice)
	if err != nil {
		return nil, fmt.Errorf("parse unit_selling_price for %s: %w", r.ProductID, err)
	}
	added, err := parseTimestamp(r.DateAdded)
	if err != nil {
		return nil, fmt.Errorf("parse date_added for %s: %w", r.ProductID, err)
	}
	updated, err := parseTimestamp(r.DateUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse date_updated for %s: %w", r.ProductID, err)
	}

	return &domain.Product{
		ProductID:        r.ProductID,
		CategoryID:       r.CategoryID,
		CategoryName:     r.CategoryName,
		ProductName:      r.ProductName,
		UnitCostPrice:    cost,
		UnitSellingPrice: selling,
		Quantity:         r.Quantity,
		DateAdded:        added,
		DateUpdated:      updated,
	}, nil
}

func toSaleRecord(s *domain.Sale) saleRecord {
	items := make([]lineItemRecord, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, lineItemRecord{
			ProductID:    item.ProductID,
			QuantitySold: item.QuantitySold,
			UnitPrice:    item.UnitPrice.String(),
			TotalPrice:   item.TotalPrice.String(),
		})
	}

	return saleRecord{
		SalesID:      s.SalesID,
		Items:        items,
		QuantitySold: s.QuantitySold,
		TotalPrice:   s.TotalPrice.String(),
		DateSold:     s.DateSold.UTC().Format(time.RFC3339),
		SoldOn:       s.DateSold.UTC().Format("2006-01-02"),
		DateUpdated:  s.DateUpdated.UTC().Format(time.RFC3339),
	}
}

func (r saleRecord) toDomain() (*domain.Sale, error) {
	total, err := decimal.NewFromString(r.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("parse total_price for %s: %w", r.SalesID, err)
	}
	sold, err := parseTimestamp(r.DateSold)
	if err != nil {
		return nil, fmt.Errorf("parse date_sold for %s: %w", r.SalesID, err)
	}
	updated, err := parseTimestamp(r.DateUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse date_updated for %s: %w", r.SalesID, err)
	}

	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		unit, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse unit_price for %s/%s: %w", r.SalesID, item.ProductID, err)
		}
		lineTotal, err := decimal.NewFromString(item.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("parse total_price for %s/%s: %w", r.SalesID, item.ProductID, err)
		}
		items = append(items, domain.LineItem{
			ProductID:    item.ProductID,
			QuantitySold: item.QuantitySold,
			UnitPrice:    unit,
			TotalPrice:   lineTotal,
		})
	}

	return &domain.Sale{
		SalesID:      r.SalesID,
		Items:        items,
		QuantitySold: r.QuantitySold,
		TotalPrice:   total,
		DateSold:     sold,
		DateUpdated:  updated,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// mapError translates DynamoDB failures into domain sentinels. A failed
// conditional write means another writer got there first; everything
// else surfaces as a store availability problem.
func mapError(op string, err error) error {
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreUnavailable)
}
