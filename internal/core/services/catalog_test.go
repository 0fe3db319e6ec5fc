// internal/core/services/catalog_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/adekola/stockpoint-be/internal/adapters/redis_adapter"
	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/adekola/stockpoint-be/internal/core/services"
	"github.com/adekola/stockpoint-be/test/helpers"
)

type catalogFixture struct {
	products   *helpers.FakeProductStore
	categories *helpers.FakeCategoryStore
	cache      ports.CacheRepository
	service    *services.CatalogService
}

func newCatalogFixture(t *testing.T, products ...*domain.Product) *catalogFixture {
	t.Helper()

	productStore := helpers.NewFakeProductStore(products...)
	categoryStore := helpers.NewFakeCategoryStore()
	cache := redis_a.NewCache(helpers.SetupTestRedis(t).Client, time.Hour, helpers.TestLogger())

	return &catalogFixture{
		products:   productStore,
		categories: categoryStore,
		cache:      cache,
		service:    services.NewCatalogService(productStore, categoryStore, cache, helpers.TestLogger()),
	}
}

func TestCatalogService_CreateProducts(t *testing.T) {
	f := newCatalogFixture(t)

	batch := []domain.Product{
		*helpers.CreateTestProduct(func(p *domain.Product) {
			p.ProductID = ""
			p.ProductName = "Cold Brew Coffee 330ml"
		}),
		*helpers.CreateTestProduct(func(p *domain.Product) {
			p.ProductID = ""
			p.ProductName = "" // invalid
		}),
		*helpers.CreateTestProduct(func(p *domain.Product) {
			p.ProductID = ""
			p.ProductName = "Trail Mix 200g"
			p.Quantity = -4 // invalid
		}),
	}

	result, err := f.service.CreateProducts(context.Background(), domain.RoleAdmin, batch)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "Trail Mix 200g", result.Skipped[1].ProductName)
}

func TestCatalogService_CreateProducts_SkipsDuplicates(t *testing.T) {
	existing := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ProductName = "Sparkling Water 500ml"
	})
	f := newCatalogFixture(t, existing)

	result, err := f.service.CreateProducts(context.Background(), domain.RoleAdmin, []domain.Product{
		*helpers.CreateTestProduct(func(p *domain.Product) {
			p.ProductID = ""
			p.CategoryID = existing.CategoryID
			p.ProductName = "sparkling water 500ml"
		}),
	})

	require.NoError(t, err)
	assert.Zero(t, result.Added)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "already exists")
}

func TestCatalogService_CreateProducts_Unauthorized(t *testing.T) {
	f := newCatalogFixture(t)

	for _, role := range []domain.Role{domain.RoleSalesPerson, domain.RoleNone} {
		_, err := f.service.CreateProducts(context.Background(), role,
			[]domain.Product{*helpers.CreateTestProduct()})
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "role %s", role)
	}
}

func TestCatalogService_CreateProducts_EmptyBatch(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.service.CreateProducts(context.Background(), domain.RoleAdmin, nil)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCatalogService_UpdateProduct_PreservesQuantity(t *testing.T) {
	existing := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 42
	})
	f := newCatalogFixture(t, existing)

	update := *existing
	update.ProductName = "Sparkling Water 500ml (new label)"
	update.UnitSellingPrice = decimal.NewFromFloat(1.75)
	update.Quantity = 7 // must be ignored

	got, err := f.service.UpdateProduct(context.Background(), domain.RoleAdmin, existing.ProductID, &update)

	require.NoError(t, err)
	assert.Equal(t, "Sparkling Water 500ml (new label)", got.ProductName)
	assert.Equal(t, 42, got.Quantity, "quantity only moves through the ledger")
	assert.Equal(t, 42, f.products.Quantity(existing.ProductID))
}

func TestCatalogService_UpdateProduct_NotFound(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.service.UpdateProduct(context.Background(), domain.RoleAdmin, "missing",
		helpers.CreateTestProduct())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_GetProduct_CachesReads(t *testing.T) {
	existing := helpers.CreateTestProduct()
	f := newCatalogFixture(t, existing)

	first, err := f.service.GetProduct(context.Background(), existing.ProductID)
	require.NoError(t, err)
	assert.Equal(t, existing.ProductName, first.ProductName)

	// Mutate the store behind the cache; a second read must still see
	// the cached copy.
	existing.ProductName = "renamed behind the cache"
	require.NoError(t, f.products.Put(context.Background(), existing))

	second, err := f.service.GetProduct(context.Background(), existing.ProductID)
	require.NoError(t, err)
	assert.Equal(t, first.ProductName, second.ProductName)
}

func TestCatalogService_UpdateProduct_InvalidatesCache(t *testing.T) {
	existing := helpers.CreateTestProduct()
	f := newCatalogFixture(t, existing)

	_, err := f.service.GetProduct(context.Background(), existing.ProductID)
	require.NoError(t, err)

	update := *existing
	update.ProductName = "Sparkling Water 500ml (relabel)"
	_, err = f.service.UpdateProduct(context.Background(), domain.RoleAdmin, existing.ProductID, &update)
	require.NoError(t, err)

	got, err := f.service.GetProduct(context.Background(), existing.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Sparkling Water 500ml (relabel)", got.ProductName)
}

func TestCatalogService_ListProducts_Pagination(t *testing.T) {
	f := newCatalogFixture(t)
	for _, p := range helpers.CreateTestProducts(5) {
		product := p
		require.NoError(t, f.products.Put(context.Background(), &product))
	}

	page1, err := f.service.ListProducts(context.Background(), 3, "")
	require.NoError(t, err)
	assert.Len(t, page1.Products, 3)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := f.service.ListProducts(context.Background(), 3, page1.NextCursor)
	require.NoError(t, err)
	assert.Len(t, page2.Products, 2)
	assert.Empty(t, page2.NextCursor)
}

func TestCatalogService_ProductsByCategory(t *testing.T) {
	f := newCatalogFixture(t)
	for _, p := range helpers.CreateTestProducts(8) {
		product := p
		require.NoError(t, f.products.Put(context.Background(), &product))
	}

	got, err := f.service.ProductsByCategory(context.Background(), "cat-beverages")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "cat-beverages", p.CategoryID)
	}

	_, err = f.service.ProductsByCategory(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	f := newCatalogFixture(t)

	created, err := f.service.CreateCategory(context.Background(), domain.RoleAdmin,
		&domain.Category{CategoryName: "Beverages"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.CategoryID)

	// Duplicate name, case-insensitive
	_, err = f.service.CreateCategory(context.Background(), domain.RoleAdmin,
		&domain.Category{CategoryName: "beverages"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	// Missing name
	_, err = f.service.CreateCategory(context.Background(), domain.RoleAdmin,
		&domain.Category{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	// Role check
	_, err = f.service.CreateCategory(context.Background(), domain.RoleSalesPerson,
		&domain.Category{CategoryName: "Snacks"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCatalogService_ListCategories(t *testing.T) {
	f := newCatalogFixture(t)

	for _, name := range []string{"Dairy", "Beverages", "Snacks"} {
		_, err := f.service.CreateCategory(context.Background(), domain.RoleAdmin,
			&domain.Category{CategoryName: name})
		require.NoError(t, err)
	}

	got, err := f.service.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Beverages", got[0].CategoryName, "sorted by name")
}
