// internal/core/services/reports.go
package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
)

const reportURLTTL = 24 * time.Hour

// ReportService builds the weekly sales report: one row per line item
// sold, joined with the product's name and category, rendered as CSV
// and XLSX, uploaded to report storage and emailed as a download link.
type ReportService struct {
	sales    ports.SaleStore
	products ports.ProductStore
	storage  ports.ReportStorage
	mailer   ports.Mailer
	logger   *slog.Logger

	adminEmails []string
}

// NewReportService creates a new report service
func NewReportService(sales ports.SaleStore, products ports.ProductStore, storage ports.ReportStorage, mailer ports.Mailer, adminEmails []string, logger *slog.Logger) *ReportService {
	return &ReportService{
		sales:       sales,
		products:    products,
		storage:     storage,
		mailer:      mailer,
		adminEmails: adminEmails,
		logger:      logger.With(slog.String("service", "reports")),
	}
}

// reportRow is one line of the weekly report.
type reportRow struct {
	ProductName  string
	CategoryName string
	Quantity     int
	Revenue      decimal.Decimal
	DateSold     time.Time
}

// WeeklySalesReport generates and distributes the report for the most
// recently completed Monday-to-Sunday week relative to now.
func (s *ReportService) WeeklySalesReport(ctx context.Context, now time.Time) error {
	start, end := previousWeek(now)
	return s.SalesReport(ctx, start, end)
}

// SalesReport generates and distributes a report covering start..end
// inclusive.
func (s *ReportService) SalesReport(ctx context.Context, start, end time.Time) error {
	rows, err := s.collectRows(ctx, start, end)
	if err != nil {
		return fmt.Errorf("collect report rows: %w", err)
	}

	startStr := start.Format("2006-01-02")
	endStr := end.Format("2006-01-02")
	baseKey := fmt.Sprintf("reports/weekly-sales-report-%s-to-%s", startStr, endStr)

	csvData, err := renderCSV(rows)
	if err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	if _, err := s.storage.Upload(ctx, baseKey+".csv", bytes.NewReader(csvData), "text/csv"); err != nil {
		return fmt.Errorf("upload csv report: %w", err)
	}

	xlsxData, err := renderXLSX(rows)
	if err != nil {
		return fmt.Errorf("render xlsx: %w", err)
	}
	if _, err := s.storage.Upload(ctx, baseKey+".xlsx", bytes.NewReader(xlsxData),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		return fmt.Errorf("upload xlsx report: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, baseKey+".csv", reportURLTTL)
	if err != nil {
		return fmt.Errorf("presign report url: %w", err)
	}

	subject := fmt.Sprintf("Weekly Sales Report (%s to %s)", startStr, endStr)
	body := fmt.Sprintf(
		"The weekly sales report for %s to %s covers %d line items and is available for download at: %s",
		startStr, endStr, len(rows), url)

	if err := s.mailer.Send(ctx, s.adminEmails, subject, body, ""); err != nil {
		return fmt.Errorf("email report: %w", err)
	}

	s.logger.InfoContext(ctx, "weekly sales report distributed",
		slog.String("start", startStr),
		slog.String("end", endStr),
		slog.Int("rows", len(rows)))

	return nil
}

func (s *ReportService) collectRows(ctx context.Context, start, end time.Time) ([]reportRow, error) {
	var rows []reportRow
	// Product names looked up once per report, not once per row.
	names := make(map[string]*domain.Product)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		sales, err := s.sales.FindByDate(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("query sales for %s: %w", day.Format("2006-01-02"), err)
		}

		for _, sale := range sales {
			for _, item := range sale.Items {
				product, ok := names[item.ProductID]
				if !ok {
					product, err = s.products.Get(ctx, item.ProductID)
					if err != nil {
						// Products removed since the sale still count;
						// report them by id.
						s.logger.WarnContext(ctx, "product missing for report row",
							slog.String("product_id", item.ProductID),
							slog.String("error", err.Error()))
						product = &domain.Product{ProductID: item.ProductID, ProductName: item.ProductID}
					}
					names[item.ProductID] = product
				}

				rows = append(rows, reportRow{
					ProductName:  product.ProductName,
					CategoryName: product.CategoryName,
					Quantity:     item.QuantitySold,
					Revenue:      item.TotalPrice,
					DateSold:     sale.DateSold,
				})
			}
		}
	}
	return rows, nil
}

func renderCSV(rows []reportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Item Sold", "Category", "Quantity", "Revenue", "Date Sold"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.ProductName,
			row.CategoryName,
			strconv.Itoa(row.Quantity),
			row.Revenue.StringFixed(2),
			row.DateSold.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderXLSX(rows []reportRow) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Weekly Sales")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range []string{"Item Sold", "Category", "Quantity", "Revenue", "Date Sold"} {
		header.AddCell().SetString(h)
	}

	for _, row := range rows {
		r := sheet.AddRow()
		r.AddCell().SetString(row.ProductName)
		r.AddCell().SetString(row.CategoryName)
		r.AddCell().SetInt(row.Quantity)
		revenue, _ := row.Revenue.Float64()
		r.AddCell().SetFloat(revenue)
		r.AddCell().SetString(row.DateSold.Format("2006-01-02"))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// previousWeek returns the Monday and Sunday of the most recently
// completed calendar week.
func previousWeek(now time.Time) (time.Time, time.Time) {
	day := now.Truncate(24 * time.Hour)

	offset := int(day.Weekday() - time.Sunday)
	if day.Weekday() == time.Sunday {
		offset = 7
	}
	end := day.AddDate(0, 0, -offset) // last completed Sunday
	start := end.AddDate(0, 0, -6)    // Monday of that week
	return start, end
}
