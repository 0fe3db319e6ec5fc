// internal/core/services/sales_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/services"
	"github.com/adekola/stockpoint-be/test/helpers"
)

// salesFixture wires a sales service against in-memory stores.
type salesFixture struct {
	products *helpers.FakeProductStore
	sales    *helpers.FakeSaleStore
	service  *services.SalesService
}

func newSalesFixture(t *testing.T, products ...*domain.Product) *salesFixture {
	t.Helper()

	productStore := helpers.NewFakeProductStore(products...)
	saleStore := helpers.NewFakeSaleStore()
	ledger := services.NewLedger(productStore, helpers.TestLogger(),
		services.WithRetryBackoff(time.Millisecond))

	return &salesFixture{
		products: productStore,
		sales:    saleStore,
		service:  services.NewSalesService(ledger, saleStore, helpers.TestLogger()),
	}
}

func TestSalesService_CreateSale(t *testing.T) {
	water := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ProductName = "Sparkling Water 500ml"
		p.Quantity = 20
		p.UnitSellingPrice = decimal.NewFromFloat(1.50)
	})
	crisps := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ProductName = "Sea Salt Crisps 150g"
		p.Quantity = 10
		p.UnitSellingPrice = decimal.NewFromFloat(2.10)
	})

	f := newSalesFixture(t, water, crisps)

	items := []domain.LineItem{
		helpers.CreateTestLineItem(water, 4),
		helpers.CreateTestLineItem(crisps, 2),
	}

	sale, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson, items)

	require.NoError(t, err)
	assert.NotEmpty(t, sale.SalesID)
	assert.Equal(t, 6, sale.QuantitySold)
	assert.True(t, sale.TotalPrice.Equal(decimal.NewFromFloat(10.20)),
		"expected 10.20, got %s", sale.TotalPrice)

	assert.Equal(t, 16, f.products.Quantity(water.ProductID))
	assert.Equal(t, 8, f.products.Quantity(crisps.ProductID))

	stored, err := f.sales.Get(context.Background(), sale.SalesID)
	require.NoError(t, err)
	assert.Equal(t, sale.QuantitySold, stored.QuantitySold)
}

func TestSalesService_CreateSale_Unauthorized(t *testing.T) {
	product := helpers.CreateTestProduct()
	f := newSalesFixture(t, product)
	items := []domain.LineItem{helpers.CreateTestLineItem(product, 1)}

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleNone} {
		_, err := f.service.CreateSale(context.Background(), role, items)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "role %s", role)
	}
	assert.Equal(t, product.Quantity, f.products.Quantity(product.ProductID))
}

func TestSalesService_CreateSale_Validation(t *testing.T) {
	f := newSalesFixture(t)

	tests := []struct {
		name  string
		items []domain.LineItem
	}{
		{"no_items", nil},
		{"missing_product_id", []domain.LineItem{{
			QuantitySold: 1,
			UnitPrice:    decimal.NewFromFloat(1.00),
			TotalPrice:   decimal.NewFromFloat(1.00),
		}}},
		{"zero_quantity", []domain.LineItem{{
			ProductID:  "prod-1",
			UnitPrice:  decimal.NewFromFloat(1.00),
			TotalPrice: decimal.NewFromFloat(0),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson, tt.items)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

// A failing later line item must roll back deductions already applied
// for earlier ones.
func TestSalesService_CreateSale_CompensatesOnFailure(t *testing.T) {
	plenty := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 20
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	scarce := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 1
		p.UnitSellingPrice = decimal.NewFromFloat(2.00)
	})

	f := newSalesFixture(t, plenty, scarce)

	items := []domain.LineItem{
		helpers.CreateTestLineItem(plenty, 5),
		helpers.CreateTestLineItem(scarce, 3),
	}

	_, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson, items)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 20, f.products.Quantity(plenty.ProductID), "first deduction must be restored")
	assert.Equal(t, 1, f.products.Quantity(scarce.ProductID))
}

func TestSalesService_CreateSale_RollsBackWhenPersistFails(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 10
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	f := newSalesFixture(t, product)
	f.sales.PutErr = errors.New("table throttled")

	_, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 4)})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCompensationFailed)
	assert.Equal(t, 10, f.products.Quantity(product.ProductID), "deduction must be restored")
}

// When the rollback itself cannot be applied, the error must escalate
// to ErrCompensationFailed and still carry the triggering failure, so
// the inconsistent stock is flagged for manual reconciliation rather
// than reported as an ordinary rejection.
func TestSalesService_CreateSale_EscalatesWhenCompensationFails(t *testing.T) {
	plenty := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 20
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	scarce := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 1
		p.UnitSellingPrice = decimal.NewFromFloat(2.00)
	})

	f := newSalesFixture(t, plenty, scarce)
	// Deductions go through; every attempt to restore them conflicts.
	f.products.FailRestores = 10

	items := []domain.LineItem{
		helpers.CreateTestLineItem(plenty, 5),
		helpers.CreateTestLineItem(scarce, 3),
	}

	_, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson, items)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCompensationFailed)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock,
		"escalated error must not read as an ordinary stock rejection")
	assert.ErrorContains(t, err, "in stock", "triggering failure must stay visible")
	assert.Equal(t, 15, f.products.Quantity(plenty.ProductID),
		"unrestored deduction remains, pending manual reconciliation")
	assert.Equal(t, 1, f.products.Quantity(scarce.ProductID))
}

// Same escalation on the persist-failure path: a sale that cannot be
// stored and cannot be rolled back is a compensation failure, not a
// plain persistence error.
func TestSalesService_CreateSale_PersistAndRollbackBothFail(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 10
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	f := newSalesFixture(t, product)
	f.sales.PutErr = errors.New("table throttled")
	f.products.FailRestores = 10

	_, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 4)})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCompensationFailed)
	assert.ErrorContains(t, err, "table throttled", "triggering failure must stay visible")
	assert.Equal(t, 6, f.products.Quantity(product.ProductID),
		"unrestored deduction remains, pending manual reconciliation")
}

func TestSalesService_EditSale_AdjustQuantity(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 20
		p.UnitSellingPrice = decimal.NewFromFloat(2.00)
	})
	f := newSalesFixture(t, product)

	sale, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 5)})
	require.NoError(t, err)
	require.Equal(t, 15, f.products.Quantity(product.ProductID))

	// Reduce from 5 to 2
	edited, err := f.service.EditSale(context.Background(), domain.RoleSalesPerson, sale.SalesID,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 2)})

	require.NoError(t, err)
	assert.Equal(t, 2, edited.QuantitySold)
	assert.True(t, edited.TotalPrice.Equal(decimal.NewFromFloat(4.00)))
	assert.Equal(t, 18, f.products.Quantity(product.ProductID))
}

// Raising a quantity to more than remaining free stock must still work
// when the sale's own prior deduction covers the difference.
func TestSalesService_EditSale_RestoreBeforeDeduct(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 10
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	f := newSalesFixture(t, product)

	sale, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 8)})
	require.NoError(t, err)
	require.Equal(t, 2, f.products.Quantity(product.ProductID))

	// 9 > 2 free, but restoring the prior 8 first leaves 10 available.
	edited, err := f.service.EditSale(context.Background(), domain.RoleSalesPerson, sale.SalesID,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 9)})

	require.NoError(t, err)
	assert.Equal(t, 9, edited.QuantitySold)
	assert.Equal(t, 1, f.products.Quantity(product.ProductID))
}

func TestSalesService_EditSale_UnmentionedItemsCarryOver(t *testing.T) {
	water := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 20
		p.UnitSellingPrice = decimal.NewFromFloat(1.50)
	})
	crisps := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 20
		p.UnitSellingPrice = decimal.NewFromFloat(2.00)
	})
	f := newSalesFixture(t, water, crisps)

	sale, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson,
		[]domain.LineItem{
			helpers.CreateTestLineItem(water, 4),
			helpers.CreateTestLineItem(crisps, 3),
		})
	require.NoError(t, err)

	// Only touch crisps; water must carry over untouched.
	edited, err := f.service.EditSale(context.Background(), domain.RoleSalesPerson, sale.SalesID,
		[]domain.LineItem{helpers.CreateTestLineItem(crisps, 1)})

	require.NoError(t, err)
	assert.Equal(t, 5, edited.QuantitySold)
	assert.Equal(t, 16, f.products.Quantity(water.ProductID), "carried-over item must not be re-applied")
	assert.Equal(t, 19, f.products.Quantity(crisps.ProductID))
}

// Re-submitting the same items is a no-op on stock.
func TestSalesService_EditSale_Idempotent(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 10
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	f := newSalesFixture(t, product)

	sale, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 4)})
	require.NoError(t, err)

	edited, err := f.service.EditSale(context.Background(), domain.RoleSalesPerson, sale.SalesID,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 4)})

	require.NoError(t, err)
	assert.Equal(t, 4, edited.QuantitySold)
	assert.Equal(t, 6, f.products.Quantity(product.ProductID))
}

func TestSalesService_EditSale_DuplicateProductLastWins(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 20
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	f := newSalesFixture(t, product)

	sale, err := f.service.CreateSale(context.Background(), domain.RoleSalesPerson,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 5)})
	require.NoError(t, err)

	edited, err := f.service.EditSale(context.Background(), domain.RoleSalesPerson, sale.SalesID,
		[]domain.LineItem{
			helpers.CreateTestLineItem(product, 7),
			helpers.CreateTestLineItem(product, 2),
		})

	require.NoError(t, err)
	assert.Equal(t, 2, edited.QuantitySold)
	assert.Len(t, edited.Items, 1)
	assert.Equal(t, 18, f.products.Quantity(product.ProductID))
}

func TestSalesService_EditSale_WindowExpired(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 10
		p.UnitSellingPrice = decimal.NewFromFloat(1.00)
	})
	f := newSalesFixture(t, product)

	stale := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 2))
	stale.DateSold = time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, f.sales.Put(context.Background(), stale))

	_, err := f.service.EditSale(context.Background(), domain.RoleSalesPerson, stale.SalesID,
		[]domain.LineItem{helpers.CreateTestLineItem(product, 1)})

	assert.ErrorIs(t, err, domain.ErrEditWindowExpired)
	assert.Equal(t, 10, f.products.Quantity(product.ProductID))
}

func TestSalesService_EditSale_NotFound(t *testing.T) {
	product := helpers.CreateTestProduct()
	f := newSalesFixture(t, product)

	_, err := f.service.EditSale(context.Background(), domain.RoleSalesPerson, "no-such-sale",
		[]domain.LineItem{helpers.CreateTestLineItem(product, 1)})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesService_EditSale_Unauthorized(t *testing.T) {
	product := helpers.CreateTestProduct()
	f := newSalesFixture(t, product)

	_, err := f.service.EditSale(context.Background(), domain.RoleAdmin, "sale-1",
		[]domain.LineItem{helpers.CreateTestLineItem(product, 1)})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSalesService_GetSale(t *testing.T) {
	f := newSalesFixture(t)
	product := helpers.CreateTestProduct()

	sale := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 2))
	require.NoError(t, f.sales.Put(context.Background(), sale))

	got, err := f.service.GetSale(context.Background(), sale.SalesID)
	require.NoError(t, err)
	assert.Equal(t, sale.SalesID, got.SalesID)

	_, err = f.service.GetSale(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = f.service.GetSale(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesService_ListSales_Pagination(t *testing.T) {
	f := newSalesFixture(t)
	product := helpers.CreateTestProduct()

	for i := 0; i < 5; i++ {
		sale := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 1))
		require.NoError(t, f.sales.Put(context.Background(), sale))
	}

	page1, err := f.service.ListSales(context.Background(), 3, "")
	require.NoError(t, err)
	assert.Len(t, page1.Sales, 3)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := f.service.ListSales(context.Background(), 3, page1.NextCursor)
	require.NoError(t, err)
	assert.Len(t, page2.Sales, 2)
	assert.Empty(t, page2.NextCursor)
}

func TestSalesService_FilterSalesByDate(t *testing.T) {
	f := newSalesFixture(t)
	product := helpers.CreateTestProduct()

	today := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 1))
	yesterday := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 2))
	yesterday.DateSold = time.Now().AddDate(0, 0, -1)
	lastMonth := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 3))
	lastMonth.DateSold = time.Now().AddDate(0, -1, 0)

	for _, sale := range []*domain.Sale{today, yesterday, lastMonth} {
		require.NoError(t, f.sales.Put(context.Background(), sale))
	}

	got, err := f.service.FilterSalesByDate(context.Background(),
		time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.service.FilterSalesByDate(context.Background(),
		time.Now(), time.Now().AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
