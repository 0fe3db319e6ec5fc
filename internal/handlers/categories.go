// internal/handlers/categories.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/adekola/stockpoint-be/internal/handlers/middleware"
)

// CategoriesHandler handles category HTTP requests
type CategoriesHandler struct {
	catalog ports.CatalogService
	logger  *slog.Logger
}

// NewCategoriesHandler creates a new categories handler
func NewCategoriesHandler(catalog ports.CatalogService, logger *slog.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("handler", "categories")),
	}
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoriesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	role := middleware.RoleFromContext(ctx)
	category, err := h.catalog.CreateCategory(ctx, role, &domain.Category{
		CategoryName: req.CategoryName,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create category",
			slog.String("category_name", req.CategoryName),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.CategoryID),
		slog.String("category_name", category.CategoryName))

	respondJSON(w, h.logger, http.StatusCreated, category)
}

// ListCategories handles GET /api/v1/categories
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list categories",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// CategoryRequest represents the request body for creating a category
type CategoryRequest struct {
	CategoryName string `json:"category_name"`
}
