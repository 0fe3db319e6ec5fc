// internal/handlers/products.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/adekola/stockpoint-be/internal/handlers/middleware"
)

// ProductsHandler handles product catalog HTTP requests
type ProductsHandler struct {
	catalog ports.CatalogService
	logger  *slog.Logger
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(catalog ports.CatalogService, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("handler", "products")),
	}
}

// CreateProducts handles POST /api/v1/products
//
// Accepts a batch; invalid or duplicate entries are skipped and
// reported rather than failing the whole batch.
func (h *ProductsHandler) CreateProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	role := middleware.RoleFromContext(ctx)
	result, err := h.catalog.CreateProducts(ctx, role, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create products",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "products created",
		slog.Int("added", result.Added),
		slog.Int("skipped", len(result.Skipped)))

	respondJSON(w, h.logger, http.StatusCreated, result)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	role := middleware.RoleFromContext(ctx)
	product, err := h.catalog.UpdateProduct(ctx, role, productID, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", productID))

	respondJSON(w, h.logger, http.StatusOK, product)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, product)
}

// ListProducts handles GET /api/v1/products
func (h *ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	cursor := r.URL.Query().Get("cursor")

	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		products, err := h.catalog.ProductsByCategory(ctx, categoryID)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to list products by category",
				slog.String("category_id", categoryID),
				slog.String("error", err.Error()))
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, ports.ProductsPage{Products: products})
		return
	}

	page, err := h.catalog.ListProducts(ctx, limit, cursor)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, page)
}

// Request/Response DTOs

// ProductRequest represents one product in a create or update request
type ProductRequest struct {
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	ProductName      string          `json:"product_name"`
	UnitCostPrice    decimal.Decimal `json:"unit_cost_price"`
	UnitSellingPrice decimal.Decimal `json:"unit_selling_price"`
	Quantity         int             `json:"quantity"`
}

// ToDomain converts the request to a domain model
func (r *ProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		CategoryID:       r.CategoryID,
		CategoryName:     r.CategoryName,
		ProductName:      r.ProductName,
		UnitCostPrice:    r.UnitCostPrice,
		UnitSellingPrice: r.UnitSellingPrice,
		Quantity:         r.Quantity,
	}
}

// CreateProductsRequest represents the batch create request body
type CreateProductsRequest struct {
	Products []ProductRequest `json:"products"`
}

// ToDomain converts the request to domain models
func (r *CreateProductsRequest) ToDomain() []domain.Product {
	products := make([]domain.Product, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, *p.ToDomain())
	}
	return products
}
