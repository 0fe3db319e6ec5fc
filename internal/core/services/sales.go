// internal/core/services/sales.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
)

// SalesService orchestrates sale transactions. The store has no
// multi-item transaction, so a sale is applied as an ordered saga of
// per-product ledger deductions, unwound in reverse order when a later
// step fails.
type SalesService struct {
	ledger ports.InventoryLedger
	sales  ports.SaleStore
	logger *slog.Logger
}

// Statically assert that *SalesService implements the SaleEngine interface.
var _ ports.SaleEngine = (*SalesService)(nil)

// NewSalesService creates a new sales service
func NewSalesService(ledger ports.InventoryLedger, sales ports.SaleStore, logger *slog.Logger) *SalesService {
	return &SalesService{
		ledger: ledger,
		sales:  sales,
		logger: logger.With(slog.String("service", "sales")),
	}
}

// CreateSale records a sale, deducting stock for every line item in
// request order. If any item is rejected, deductions already applied in
// this request are restored in reverse order before the error returns,
// so the operation is all-or-nothing from the caller's point of view.
func (s *SalesService) CreateSale(ctx context.Context, role domain.Role, items []domain.LineItem) (*domain.Sale, error) {
	if !role.CanRecordSales() {
		return nil, fmt.Errorf("role %q cannot record sales: %w", role, domain.ErrUnauthorized)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	applied, err := s.deductAll(ctx, items)
	if err != nil {
		return nil, err
	}

	sale := domain.NewSale(items)
	if err := s.sales.Put(ctx, sale); err != nil {
		if cerr := s.restoreAll(ctx, applied); cerr != nil {
			return nil, fmt.Errorf("persist sale failed (%v) and rollback failed (%v): %w",
				err, cerr, domain.ErrCompensationFailed)
		}
		return nil, fmt.Errorf("persist sale: %w", err)
	}

	s.logger.InfoContext(ctx, "sale recorded",
		slog.String("sales_id", sale.SalesID),
		slog.Int("items", len(sale.Items)),
		slog.Int("quantity_sold", sale.QuantitySold),
		slog.String("total_price", sale.TotalPrice.String()))

	return sale, nil
}

// EditSale replaces a sale's line items within the edit window.
//
// The merge is keyed on product id: items re-specified in the request
// first have their old quantity restored (so a reduced quantity on the
// same product cannot spuriously fail the stock check), items absent
// from the request are carried over untouched, and the requested items
// are then deducted exactly like a create, with compensation scoped to
// this edit's own deductions. Restorations are deliberately not undone
// when a later deduction fails; they reflect a state the caller asked
// for, and re-deducting them could itself fail. That window is accepted
// and logged.
func (s *SalesService) EditSale(ctx context.Context, role domain.Role, salesID string, items []domain.LineItem) (*domain.Sale, error) {
	if !role.CanRecordSales() {
		return nil, fmt.Errorf("role %q cannot edit sales: %w", role, domain.ErrUnauthorized)
	}
	if salesID == "" {
		return nil, fmt.Errorf("sales_id is required: %w", domain.ErrBadRequest)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	existing, err := s.sales.Get(ctx, salesID)
	if err != nil {
		return nil, fmt.Errorf("read sale %s: %w", salesID, err)
	}
	if !existing.Editable(time.Now()) {
		return nil, fmt.Errorf("sale %s was recorded on %s: %w",
			salesID, existing.DateSold.Format(time.RFC3339), domain.ErrEditWindowExpired)
	}

	// Duplicate product ids within one list are a caller error; the
	// last occurrence wins.
	existingByID := indexByProduct(existing.Items)
	requestByID := indexByProduct(items)
	requestOrder := productOrder(items)

	// Undo the old deduction for every re-specified product before any
	// new deduction is evaluated.
	for _, productID := range requestOrder {
		old, ok := existingByID[productID]
		if !ok {
			continue
		}
		if err := s.ledger.ApplyDelta(ctx, productID, old.QuantitySold, old.UnitPrice, old.TotalPrice); err != nil {
			s.logger.ErrorContext(ctx, "failed to restore prior deduction during edit",
				slog.String("sales_id", salesID),
				slog.String("product_id", productID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("restore product %s for edit of sale %s: %w", productID, salesID, err)
		}
	}

	// Items not re-specified carry over with their inventory effect
	// left as-is.
	merged := make([]domain.LineItem, 0, len(existing.Items)+len(requestOrder))
	for _, item := range existing.Items {
		if _, ok := requestByID[item.ProductID]; !ok {
			merged = append(merged, item)
		}
	}

	requested := make([]domain.LineItem, 0, len(requestOrder))
	for _, productID := range requestOrder {
		requested = append(requested, requestByID[productID])
	}

	applied, err := s.deductAll(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("edit sale %s: %w", salesID, err)
	}
	merged = append(merged, applied...)

	existing.Items = merged
	existing.RecomputeTotals()
	existing.DateUpdated = time.Now()

	if err := s.sales.Put(ctx, existing); err != nil {
		if cerr := s.restoreAll(ctx, applied); cerr != nil {
			return nil, fmt.Errorf("persist edited sale failed (%v) and rollback failed (%v): %w",
				err, cerr, domain.ErrCompensationFailed)
		}
		return nil, fmt.Errorf("persist edited sale %s: %w", salesID, err)
	}

	s.logger.InfoContext(ctx, "sale edited",
		slog.String("sales_id", salesID),
		slog.Int("items", len(merged)),
		slog.Int("quantity_sold", existing.QuantitySold),
		slog.String("total_price", existing.TotalPrice.String()))

	return existing, nil
}

// GetSale returns a sale by id.
func (s *SalesService) GetSale(ctx context.Context, salesID string) (*domain.Sale, error) {
	if salesID == "" {
		return nil, fmt.Errorf("sales_id is required: %w", domain.ErrBadRequest)
	}
	sale, err := s.sales.Get(ctx, salesID)
	if err != nil {
		return nil, fmt.Errorf("read sale %s: %w", salesID, err)
	}
	return sale, nil
}

// ListSales returns one page of sales.
func (s *SalesService) ListSales(ctx context.Context, limit int, cursor string) (*ports.SalesPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	sales, next, err := s.sales.List(ctx, limit, cursor)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return &ports.SalesPage{Sales: sales, NextCursor: next}, nil
}

// FilterSalesByDate returns all sales recorded between start and end,
// inclusive, walking the date index one day at a time.
func (s *SalesService) FilterSalesByDate(ctx context.Context, start, end time.Time) ([]domain.Sale, error) {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	if end.Before(start) {
		return nil, fmt.Errorf("end date precedes start date: %w", domain.ErrBadRequest)
	}

	var all []domain.Sale
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		sales, err := s.sales.FindByDate(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("query sales for %s: %w", day.Format("2006-01-02"), err)
		}
		all = append(all, sales...)
	}
	return all, nil
}

// deductAll applies deductions in request order. On failure it restores
// every deduction already applied in this call, in reverse order; if
// that rollback itself fails the error escalates to
// ErrCompensationFailed.
func (s *SalesService) deductAll(ctx context.Context, items []domain.LineItem) ([]domain.LineItem, error) {
	applied := make([]domain.LineItem, 0, len(items))
	for i := range items {
		item := items[i]
		err := s.ledger.ApplyDelta(ctx, item.ProductID, -item.QuantitySold, item.UnitPrice, item.TotalPrice)
		if err == nil {
			applied = append(applied, item)
			continue
		}

		if cerr := s.restoreAll(ctx, applied); cerr != nil {
			return nil, fmt.Errorf("line item %d (product %s) failed (%v) and rollback of %d deductions failed (%v): %w",
				i, item.ProductID, err, len(applied), cerr, domain.ErrCompensationFailed)
		}
		return nil, fmt.Errorf("line item %d (product %s): %w", i, item.ProductID, err)
	}
	return applied, nil
}

// restoreAll unwinds applied deductions in reverse order. Every failure
// is logged; none is swallowed.
func (s *SalesService) restoreAll(ctx context.Context, applied []domain.LineItem) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		item := applied[i]
		if err := s.ledger.ApplyDelta(ctx, item.ProductID, item.QuantitySold, item.UnitPrice, item.TotalPrice); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed, manual reconciliation required",
				slog.String("product_id", item.ProductID),
				slog.Int("quantity", item.QuantitySold),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("restore product %s: %w", item.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

func validateItems(items []domain.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one line item is required: %w", domain.ErrBadRequest)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("line item %d: %v: %w", i, err, domain.ErrBadRequest)
		}
	}
	return nil
}

func indexByProduct(items []domain.LineItem) map[string]domain.LineItem {
	m := make(map[string]domain.LineItem, len(items))
	for _, item := range items {
		m[item.ProductID] = item
	}
	return m
}

// productOrder returns the distinct product ids in first-appearance
// order.
func productOrder(items []domain.LineItem) []string {
	order := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		order = append(order, item.ProductID)
	}
	return order
}
