// internal/handlers/reports.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/handlers/middleware"
	"github.com/adekola/stockpoint-be/internal/workers"
)

// ReportsHandler lets an admin trigger a sales report out of schedule
type ReportsHandler struct {
	asynqClient *asynq.Client
	logger      *slog.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(asynqClient *asynq.Client, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{
		asynqClient: asynqClient,
		logger:      logger.With(slog.String("handler", "reports")),
	}
}

// TriggerSalesReport handles POST /api/v1/reports/sales
//
// The report runs asynchronously; the response only confirms the task
// was queued.
func (h *ReportsHandler) TriggerSalesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	role := middleware.RoleFromContext(ctx)
	if !role.CanManageCatalog() {
		respondDomainError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	var payload workers.WeeklyReportPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	task, err := workers.NewWeeklyReportTask(payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build report task",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to queue report")
		return
	}

	info, err := h.asynqClient.EnqueueContext(ctx, task, asynq.Queue("default"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue report task",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to queue report")
		return
	}

	h.logger.InfoContext(ctx, "sales report queued",
		slog.String("task_id", info.ID))

	respondJSON(w, h.logger, http.StatusAccepted, map[string]string{
		"message": "Sales report queued",
		"task_id": info.ID,
	})
}
