// internal/handlers/sales.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/adekola/stockpoint-be/internal/handlers/middleware"
)

// SalesHandler handles sales-related HTTP requests
type SalesHandler struct {
	engine ports.SaleEngine
	logger *slog.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(engine ports.SaleEngine, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		engine: engine,
		logger: logger.With(slog.String("handler", "sales")),
	}
}

// CreateSale handles POST /api/v1/sales
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	role := middleware.RoleFromContext(ctx)
	sale, err := h.engine.CreateSale(ctx, role, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create sale",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "sale recorded",
		slog.String("sales_id", sale.SalesID),
		slog.Int("items", len(sale.Items)))

	respondJSON(w, h.logger, http.StatusCreated, sale)
}

// EditSale handles PUT /api/v1/sales/{id}
func (h *SalesHandler) EditSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	salesID := r.PathValue("id")

	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	role := middleware.RoleFromContext(ctx)
	sale, err := h.engine.EditSale(ctx, role, salesID, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to edit sale",
			slog.String("sales_id", salesID),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "sale updated",
		slog.String("sales_id", salesID))

	respondJSON(w, h.logger, http.StatusOK, sale)
}

// GetSale handles GET /api/v1/sales/{id}
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	salesID := r.PathValue("id")

	sale, err := h.engine.GetSale(ctx, salesID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get sale",
			slog.String("sales_id", salesID),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, sale)
}

// ListSales handles GET /api/v1/sales
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	cursor := r.URL.Query().Get("cursor")

	page, err := h.engine.ListSales(ctx, limit, cursor)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list sales",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, page)
}

// FilterSales handles GET /api/v1/sales/filter?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *SalesHandler) FilterSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		respondError(w, h.logger, http.StatusBadRequest, "End date must not be before start date")
		return
	}

	sales, err := h.engine.FilterSalesByDate(ctx, start, end)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to filter sales by date",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"sales": sales,
		"count": len(sales),
	})
}

// Request/Response DTOs

// SaleLineItemRequest is one requested line of a sale
type SaleLineItemRequest struct {
	ProductID    string          `json:"product_id"`
	QuantitySold int             `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// SaleRequest represents the request body for creating or editing a sale
type SaleRequest struct {
	Items []SaleLineItemRequest `json:"items"`
}

// Validate checks the request for obviously malformed lines. Full
// validation happens in the sales service.
func (r *SaleRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("items are required")
	}
	return nil
}

// ToDomain converts the request to domain line items
func (r *SaleRequest) ToDomain() []domain.LineItem {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem{
			ProductID:    item.ProductID,
			QuantitySold: item.QuantitySold,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
		})
	}
	return items
}
