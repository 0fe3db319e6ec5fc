// internal/handlers/sales_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/adekola/stockpoint-be/internal/handlers"
	"github.com/adekola/stockpoint-be/internal/handlers/middleware"
	"github.com/adekola/stockpoint-be/test/helpers"
	"github.com/adekola/stockpoint-be/test/mocks"
)

func newSalesServer(t *testing.T) (*mocks.MockSaleEngine, *http.ServeMux) {
	t.Helper()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockSaleEngine(ctrl)
	handler := handlers.NewSalesHandler(engine, helpers.TestLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sales", handler.CreateSale)
	mux.HandleFunc("PUT /api/v1/sales/{id}", handler.EditSale)
	mux.HandleFunc("GET /api/v1/sales/{id}", handler.GetSale)
	mux.HandleFunc("GET /api/v1/sales", handler.ListSales)
	mux.HandleFunc("GET /api/v1/sales/filter", handler.FilterSales)
	return engine, mux
}

func withRole(req *http.Request, role domain.Role) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyRole, role))
}

func saleBody() string {
	return `{"items":[{"product_id":"prod-1","quantity_sold":2,"unit_price":"1.50","total_price":"3.00"}]}`
}

func TestSalesHandler_CreateSale(t *testing.T) {
	engine, mux := newSalesServer(t)

	sale := domain.NewSale([]domain.LineItem{{
		ProductID:    "prod-1",
		QuantitySold: 2,
		UnitPrice:    decimal.NewFromFloat(1.50),
		TotalPrice:   decimal.NewFromFloat(3.00),
	}})

	engine.EXPECT().
		CreateSale(gomock.Any(), domain.RoleSalesPerson, gomock.Len(1)).
		Return(sale, nil)

	req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(saleBody()))
	req = withRole(req, domain.RoleSalesPerson)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var got domain.Sale
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, sale.SalesID, got.SalesID)
	assert.Equal(t, 2, got.QuantitySold)
}

func TestSalesHandler_CreateSale_InvalidBody(t *testing.T) {
	_, mux := newSalesServer(t)

	req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader("{not json"))
	req = withRole(req, domain.RoleSalesPerson)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesHandler_CreateSale_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"bad_request", domain.ErrBadRequest, http.StatusBadRequest},
		{"insufficient_stock", domain.ErrInsufficientStock, http.StatusUnprocessableEntity},
		{"price_mismatch", domain.ErrPriceMismatch, http.StatusUnprocessableEntity},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"compensation_failed", domain.ErrCompensationFailed, http.StatusInternalServerError},
		{"store_unavailable", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, mux := newSalesServer(t)
			engine.EXPECT().
				CreateSale(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, fmt.Errorf("create sale: %w", tt.err))

			req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(saleBody()))
			req = withRole(req, domain.RoleSalesPerson)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSalesHandler_EditSale(t *testing.T) {
	engine, mux := newSalesServer(t)

	sale := domain.NewSale([]domain.LineItem{{
		ProductID:    "prod-1",
		QuantitySold: 2,
		UnitPrice:    decimal.NewFromFloat(1.50),
		TotalPrice:   decimal.NewFromFloat(3.00),
	}})

	engine.EXPECT().
		EditSale(gomock.Any(), domain.RoleSalesPerson, "sale-42", gomock.Len(1)).
		Return(sale, nil)

	req := httptest.NewRequest("PUT", "/api/v1/sales/sale-42", strings.NewReader(saleBody()))
	req = withRole(req, domain.RoleSalesPerson)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSalesHandler_EditSale_WindowExpired(t *testing.T) {
	engine, mux := newSalesServer(t)

	engine.EXPECT().
		EditSale(gomock.Any(), gomock.Any(), "sale-42", gomock.Any()).
		Return(nil, fmt.Errorf("edit sale: %w", domain.ErrEditWindowExpired))

	req := httptest.NewRequest("PUT", "/api/v1/sales/sale-42", strings.NewReader(saleBody()))
	req = withRole(req, domain.RoleSalesPerson)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSalesHandler_GetSale_NotFound(t *testing.T) {
	engine, mux := newSalesServer(t)

	engine.EXPECT().
		GetSale(gomock.Any(), "missing").
		Return(nil, fmt.Errorf("read sale: %w", domain.ErrNotFound))

	req := httptest.NewRequest("GET", "/api/v1/sales/missing", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSalesHandler_ListSales(t *testing.T) {
	engine, mux := newSalesServer(t)

	engine.EXPECT().
		ListSales(gomock.Any(), 10, "cursor-a").
		Return(&ports.SalesPage{
			Sales:      []domain.Sale{{SalesID: "sale-1"}},
			NextCursor: "cursor-b",
		}, nil)

	req := httptest.NewRequest("GET", "/api/v1/sales?limit=10&cursor=cursor-a", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page ports.SalesPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Len(t, page.Sales, 1)
	assert.Equal(t, "cursor-b", page.NextCursor)
}

func TestSalesHandler_FilterSales(t *testing.T) {
	engine, mux := newSalesServer(t)

	start := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	engine.EXPECT().
		FilterSalesByDate(gomock.Any(), start, end).
		Return([]domain.Sale{{SalesID: "sale-1"}, {SalesID: "sale-2"}}, nil)

	req := httptest.NewRequest("GET", "/api/v1/sales/filter?start=2026-08-17&end=2026-08-23", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sales []domain.Sale `json:"sales"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
}

func TestSalesHandler_FilterSales_BadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing_start", "?end=2026-08-23"},
		{"malformed_start", "?start=17-08-2026&end=2026-08-23"},
		{"missing_end", "?start=2026-08-17"},
		{"end_before_start", "?start=2026-08-23&end=2026-08-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mux := newSalesServer(t)

			req := httptest.NewRequest("GET", "/api/v1/sales/filter"+tt.query, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
