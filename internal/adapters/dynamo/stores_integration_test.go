// internal/adapters/dynamo/stores_integration_test.go
//
// These tests run against DynamoDB Local via dockertest and are
// skipped when no Docker daemon is available.
package dynamo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adekola/stockpoint-be/internal/adapters/dynamo"
	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/test/helpers"
)

func TestProductStore_PutAndGet(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewProductStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	product := helpers.CreateTestProduct()
	require.NoError(t, store.Put(ctx, product))

	got, err := store.Get(ctx, product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, product.ProductID, got.ProductID)
	assert.Equal(t, product.ProductName, got.ProductName)
	assert.Equal(t, product.Quantity, got.Quantity)
	assert.True(t, product.UnitSellingPrice.Equal(got.UnitSellingPrice))
}

func TestProductStore_Get_NotFound(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewProductStore(td.Client, helpers.TestLogger())

	_, err := store.Get(context.Background(), "no-such-product")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductStore_ConditionalPut(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewProductStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 10
	})
	require.NoError(t, store.Put(ctx, product))

	updated := *product
	updated.Quantity = 7
	require.NoError(t, store.ConditionalPut(ctx, &updated, 10))

	got, err := store.Get(ctx, product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	// Stale expectation must fail the condition and leave the
	// stored quantity untouched.
	stale := *product
	stale.Quantity = 4
	err = store.ConditionalPut(ctx, &stale, 10)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err = store.Get(ctx, product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
}

func TestProductStore_FindByCategory(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewProductStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	products := helpers.CreateTestProducts(8)
	for i := range products {
		require.NoError(t, store.Put(ctx, &products[i]))
	}

	var want int
	for _, p := range products {
		if p.CategoryID == "cat-beverages" {
			want++
		}
	}

	got, err := store.FindByCategory(ctx, "cat-beverages")
	require.NoError(t, err)
	assert.Len(t, got, want)
	for _, p := range got {
		assert.Equal(t, "cat-beverages", p.CategoryID)
	}
}

func TestProductStore_ExistsByCategoryAndName(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewProductStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	product := helpers.CreateTestProduct()
	require.NoError(t, store.Put(ctx, product))

	exists, err := store.ExistsByCategoryAndName(ctx, product.CategoryID, product.ProductName)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsByCategoryAndName(ctx, product.CategoryID, "Nonexistent Item")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductStore_List_Pagination(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewProductStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	products := helpers.CreateTestProducts(5)
	for i := range products {
		require.NoError(t, store.Put(ctx, &products[i]))
	}

	seen := make(map[string]bool)
	cursor := ""
	for {
		page, next, err := store.List(ctx, 2, cursor)
		require.NoError(t, err)
		for _, p := range page {
			assert.False(t, seen[p.ProductID], "product %s returned twice", p.ProductID)
			seen[p.ProductID] = true
		}
		if next == "" {
			break
		}
		cursor = next
	}
	assert.Len(t, seen, 5)
}

func TestSaleStore_PutAndGet(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewSaleStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	product := helpers.CreateTestProduct()
	sale := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 3))
	require.NoError(t, store.Put(ctx, sale))

	got, err := store.Get(ctx, sale.SalesID)
	require.NoError(t, err)
	assert.Equal(t, sale.SalesID, got.SalesID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, product.ProductID, got.Items[0].ProductID)
	assert.Equal(t, 3, got.Items[0].QuantitySold)
	assert.True(t, sale.TotalPrice.Equal(got.TotalPrice))
}

func TestSaleStore_FindByDate(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewSaleStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	product := helpers.CreateTestProduct()
	today := time.Date(2026, 8, 19, 14, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	onDay := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 2))
	onDay.DateSold = today
	require.NoError(t, store.Put(ctx, onDay))

	offDay := helpers.CreateTestSale(helpers.CreateTestLineItem(product, 1))
	offDay.DateSold = yesterday
	require.NoError(t, store.Put(ctx, offDay))

	sales, err := store.FindByDate(ctx, today)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, onDay.SalesID, sales[0].SalesID)
}

func TestCategoryStore_RoundTrip(t *testing.T) {
	td := helpers.SetupTestDynamo(t)
	store := dynamo.NewCategoryStore(td.Client, helpers.TestLogger())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &domain.Category{
		CategoryID:   "cat-beverages",
		CategoryName: "Beverages",
	}))
	require.NoError(t, store.Put(ctx, &domain.Category{
		CategoryID:   "cat-snacks",
		CategoryName: "Snacks",
	}))

	exists, err := store.ExistsByName(ctx, "Beverages")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsByName(ctx, "Frozen")
	require.NoError(t, err)
	assert.False(t, exists)

	categories, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
