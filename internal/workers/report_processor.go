// internal/workers/report_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/adekola/stockpoint-be/internal/core/services"
)

// TypeWeeklySalesReport is the task type for the scheduled weekly
// sales report.
const TypeWeeklySalesReport = "report:weekly_sales"

// WeeklyReportPayload optionally narrows the report to an explicit
// range. An empty payload means the most recently completed week.
type WeeklyReportPayload struct {
	Start string `json:"start,omitempty"` // YYYY-MM-DD
	End   string `json:"end,omitempty"`   // YYYY-MM-DD
}

// NewWeeklyReportTask creates a weekly sales report task
func NewWeeklyReportTask(payload WeeklyReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeWeeklySalesReport, data), nil
}

// ReportProcessor handles sales report generation tasks
type ReportProcessor struct {
	reports *services.ReportService
	logger  *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(reports *services.ReportService, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		reports: reports,
		logger:  logger.With(slog.String("processor", "report")),
	}
}

// ProcessWeeklyReport generates and distributes the weekly sales report
func (p *ReportProcessor) ProcessWeeklyReport(ctx context.Context, t *asynq.Task) error {
	var payload WeeklyReportPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if payload.Start != "" && payload.End != "" {
		start, err := time.Parse("2006-01-02", payload.Start)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", payload.Start, err)
		}
		end, err := time.Parse("2006-01-02", payload.End)
		if err != nil {
			return fmt.Errorf("invalid end date %q: %w", payload.End, err)
		}

		p.logger.InfoContext(ctx, "generating sales report",
			slog.String("start", payload.Start),
			slog.String("end", payload.End))

		return p.reports.SalesReport(ctx, start, end)
	}

	p.logger.InfoContext(ctx, "generating weekly sales report")
	return p.reports.WeeklySalesReport(ctx, time.Now())
}
