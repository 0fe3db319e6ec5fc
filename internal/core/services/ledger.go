// internal/core/services/ledger.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
)

const (
	// DefaultMaxRetries bounds how often a contended conditional write
	// is retried before ErrConflict surfaces to the caller.
	DefaultMaxRetries = 3

	// DefaultRetryBackoff is the base delay between retries; actual
	// delays grow per attempt and carry random jitter.
	DefaultRetryBackoff = 20 * time.Millisecond
)

// Ledger applies signed quantity deltas to individual products. The
// document store has per-item atomicity only, so lost updates between
// concurrent sales are prevented by writing conditionally on the
// quantity observed at read time and retrying on conflict.
type Ledger struct {
	products   ports.ProductStore
	cache      ports.CacheRepository
	logger     *slog.Logger
	maxRetries int
	backoff    time.Duration
}

// Statically assert that *Ledger implements the InventoryLedger interface.
var _ ports.InventoryLedger = (*Ledger)(nil)

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithMaxRetries overrides the conflict retry budget.
func WithMaxRetries(n int) LedgerOption {
	return func(l *Ledger) {
		if n >= 0 {
			l.maxRetries = n
		}
	}
}

// WithRetryBackoff overrides the base backoff between conflict retries.
func WithRetryBackoff(d time.Duration) LedgerOption {
	return func(l *Ledger) {
		if d > 0 {
			l.backoff = d
		}
	}
}

// WithCache invalidates cached product reads after ledger writes.
func WithCache(cache ports.CacheRepository) LedgerOption {
	return func(l *Ledger) {
		l.cache = cache
	}
}

// NewLedger creates a new inventory ledger
func NewLedger(products ports.ProductStore, logger *slog.Logger, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		products:   products,
		logger:     logger.With(slog.String("service", "ledger")),
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ApplyDelta applies delta to the product's stock counter. Deductions
// (delta < 0) fail with ErrInsufficientStock rather than going
// negative. The line item's stated prices are validated before any
// write. A write conditioned on the quantity read in this attempt
// detects concurrent updates; those are retried up to the budget, then
// surface as ErrConflict.
func (l *Ledger) ApplyDelta(ctx context.Context, productID string, delta int, unitPrice, lineTotal decimal.Decimal) error {
	if delta == 0 {
		return nil
	}

	for attempt := 0; ; attempt++ {
		product, err := l.products.Get(ctx, productID)
		if err != nil {
			return fmt.Errorf("read product %s: %w", productID, err)
		}

		if delta < 0 && product.Quantity+delta < 0 {
			return fmt.Errorf("product %s has %d in stock, requested %d: %w",
				productID, product.Quantity, -delta, domain.ErrInsufficientStock)
		}

		line := domain.LineItem{
			ProductID:    productID,
			QuantitySold: abs(delta),
			UnitPrice:    unitPrice,
			TotalPrice:   lineTotal,
		}
		if !line.PriceConsistent() {
			return fmt.Errorf("product %s: stated total %s does not match %d x %s: %w",
				productID, lineTotal, line.QuantitySold, unitPrice, domain.ErrPriceMismatch)
		}

		expected := product.Quantity
		product.Quantity += delta
		product.DateUpdated = time.Now()

		err = l.products.ConditionalPut(ctx, product, expected)
		if err == nil {
			l.invalidate(ctx, productID)
			l.logger.InfoContext(ctx, "applied stock delta",
				slog.String("product_id", productID),
				slog.Int("delta", delta),
				slog.Int("quantity", product.Quantity),
				slog.Int("attempt", attempt+1))
			return nil
		}

		if !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("write product %s: %w", productID, err)
		}

		if attempt >= l.maxRetries {
			l.logger.WarnContext(ctx, "stock update contended past retry budget",
				slog.String("product_id", productID),
				slog.Int("attempts", attempt+1))
			return fmt.Errorf("product %s contended after %d attempts: %w",
				productID, attempt+1, domain.ErrConflict)
		}

		if err := l.sleep(ctx, attempt); err != nil {
			return err
		}
	}
}

// sleep waits out one jittered backoff step, honoring the context.
func (l *Ledger) sleep(ctx context.Context, attempt int) error {
	d := l.backoff*time.Duration(attempt+1) + time.Duration(rand.Int63n(int64(l.backoff)))
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (l *Ledger) invalidate(ctx context.Context, productID string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, productCacheKey(productID)); err != nil {
		l.logger.WarnContext(ctx, "failed to invalidate product cache",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
