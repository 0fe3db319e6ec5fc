// internal/handlers/products_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/adekola/stockpoint-be/internal/handlers"
	"github.com/adekola/stockpoint-be/test/helpers"
	"github.com/adekola/stockpoint-be/test/mocks"
)

func newCatalogServer(t *testing.T) (*mocks.MockCatalogService, *http.ServeMux) {
	t.Helper()

	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogService(ctrl)
	products := handlers.NewProductsHandler(catalog, helpers.TestLogger())
	categories := handlers.NewCategoriesHandler(catalog, helpers.TestLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/products", products.CreateProducts)
	mux.HandleFunc("PUT /api/v1/products/{id}", products.UpdateProduct)
	mux.HandleFunc("GET /api/v1/products/{id}", products.GetProduct)
	mux.HandleFunc("GET /api/v1/products", products.ListProducts)
	mux.HandleFunc("POST /api/v1/categories", categories.CreateCategory)
	mux.HandleFunc("GET /api/v1/categories", categories.ListCategories)
	return catalog, mux
}

func TestProductsHandler_CreateProducts(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		CreateProducts(gomock.Any(), domain.RoleAdmin, gomock.Len(2)).
		Return(&ports.CreateProductsResult{
			Added: 1,
			Skipped: []ports.SkippedProduct{
				{ProductName: "Trail Mix 200g", Reason: "product already exists in category"},
			},
		}, nil)

	body := `{"products":[
		{"category_id":"cat-1","product_name":"Cold Brew Coffee 330ml","unit_cost_price":"1.60","unit_selling_price":"3.20","quantity":96},
		{"category_id":"cat-1","product_name":"Trail Mix 200g","unit_cost_price":"1.70","unit_selling_price":"3.80","quantity":90}
	]}`

	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body))
	req = withRole(req, domain.RoleAdmin)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var result ports.CreateProductsResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, 1, result.Added)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Trail Mix 200g", result.Skipped[0].ProductName)
}

func TestProductsHandler_CreateProducts_Unauthorized(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		CreateProducts(gomock.Any(), domain.RoleNone, gomock.Any()).
		Return(nil, fmt.Errorf("create products: %w", domain.ErrUnauthorized))

	body := `{"products":[{"category_id":"cat-1","product_name":"X","quantity":1}]}`
	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body))
	req = withRole(req, domain.RoleNone)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductsHandler_UpdateProduct(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	updated := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ProductID = "prod-9"
		p.ProductName = "Sparkling Water 500ml (relabel)"
	})

	catalog.EXPECT().
		UpdateProduct(gomock.Any(), domain.RoleAdmin, "prod-9", gomock.Any()).
		Return(updated, nil)

	body := `{"category_id":"cat-1","product_name":"Sparkling Water 500ml (relabel)","unit_cost_price":"0.80","unit_selling_price":"1.50","quantity":0}`
	req := httptest.NewRequest("PUT", "/api/v1/products/prod-9", strings.NewReader(body))
	req = withRole(req, domain.RoleAdmin)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "prod-9", got.ProductID)
}

func TestProductsHandler_GetProduct_NotFound(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		GetProduct(gomock.Any(), "missing").
		Return(nil, fmt.Errorf("read product: %w", domain.ErrNotFound))

	req := httptest.NewRequest("GET", "/api/v1/products/missing", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsHandler_ListProducts(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		ListProducts(gomock.Any(), 50, "").
		Return(&ports.ProductsPage{
			Products:   helpers.CreateTestProducts(2),
			NextCursor: "cursor-x",
		}, nil)

	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page ports.ProductsPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Len(t, page.Products, 2)
	assert.Equal(t, "cursor-x", page.NextCursor)
}

func TestProductsHandler_ListProducts_ByCategory(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		ProductsByCategory(gomock.Any(), "cat-beverages").
		Return(helpers.CreateTestProducts(1), nil)

	req := httptest.NewRequest("GET", "/api/v1/products?category_id=cat-beverages", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page ports.ProductsPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Len(t, page.Products, 1)
	assert.Empty(t, page.NextCursor)
}

func TestCategoriesHandler_CreateCategory(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		CreateCategory(gomock.Any(), domain.RoleAdmin, gomock.Any()).
		Return(&domain.Category{CategoryID: "cat-1", CategoryName: "Beverages"}, nil)

	req := httptest.NewRequest("POST", "/api/v1/categories",
		strings.NewReader(`{"category_name":"Beverages"}`))
	req = withRole(req, domain.RoleAdmin)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var got domain.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "cat-1", got.CategoryID)
}

func TestCategoriesHandler_CreateCategory_Duplicate(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		CreateCategory(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("category exists: %w", domain.ErrBadRequest))

	req := httptest.NewRequest("POST", "/api/v1/categories",
		strings.NewReader(`{"category_name":"Beverages"}`))
	req = withRole(req, domain.RoleAdmin)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoriesHandler_ListCategories(t *testing.T) {
	catalog, mux := newCatalogServer(t)

	catalog.EXPECT().
		ListCategories(gomock.Any()).
		Return([]domain.Category{
			{CategoryID: "cat-1", CategoryName: "Beverages"},
			{CategoryID: "cat-2", CategoryName: "Snacks"},
		}, nil)

	req := httptest.NewRequest("GET", "/api/v1/categories", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []domain.Category `json:"categories"`
		Count      int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
}
