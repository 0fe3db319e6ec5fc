// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/adekola/stockpoint-be/internal/adapters/dynamo"
	"github.com/adekola/stockpoint-be/internal/core/domain"
)

// catalogRow is one parsed row of the seed workbook.
type catalogRow struct {
	CategoryName     string
	ProductName      string
	UnitCostPrice    decimal.Decimal
	UnitSellingPrice decimal.Decimal
	Quantity         int
}

// workbookColumns is the expected column order of the seed sheet:
// category, product name, unit cost price, unit selling price, quantity.
const workbookColumns = 5

func main() {
	var (
		filePath = flag.String("file", "", "path to an .xlsx catalog workbook")
		sample   = flag.Bool("sample", false, "seed the built-in sample catalog instead of a workbook")
		dryRun   = flag.Bool("dry-run", false, "parse and report without writing to the store")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *filePath == "" && !*sample {
		logger.Error("either -file or -sample is required")
		flag.Usage()
		os.Exit(1)
	}

	var rows []catalogRow
	var err error
	if *sample {
		rows = sampleCatalog()
	} else {
		rows, err = loadWorkbook(*filePath)
		if err != nil {
			logger.Error("failed to load workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	logger.Info("catalog parsed", slog.Int("rows", len(rows)))

	if *dryRun {
		for _, row := range rows {
			fmt.Printf("%-20s %-40s cost=%s price=%s qty=%d\n",
				row.CategoryName, row.ProductName,
				row.UnitCostPrice.StringFixed(2), row.UnitSellingPrice.StringFixed(2),
				row.Quantity)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := dynamo.DefaultConfig()
	cfg.Region = getEnv("AWS_REGION", cfg.Region)
	cfg.Endpoint = getEnv("DYNAMODB_ENDPOINT", cfg.Endpoint)
	cfg.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", cfg.AccessKeyID)
	cfg.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.SecretAccessKey)
	cfg.ProductsTable = getEnv("DYNAMODB_PRODUCTS_TABLE", cfg.ProductsTable)
	cfg.CategoriesTable = getEnv("DYNAMODB_CATEGORIES_TABLE", cfg.CategoriesTable)

	client, err := dynamo.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to DynamoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seed(ctx, client, rows, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seeding complete")
}

func seed(ctx context.Context, client *dynamo.Client, rows []catalogRow, logger *slog.Logger) error {
	categoryStore := dynamo.NewCategoryStore(client, logger)
	productStore := dynamo.NewProductStore(client, logger)

	// Reuse ids for categories that already exist so reruns do not
	// duplicate them.
	existing, err := categoryStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	categoryIDs := make(map[string]string, len(existing))
	for _, c := range existing {
		categoryIDs[strings.ToLower(c.CategoryName)] = c.CategoryID
	}

	seeded := 0
	for _, row := range rows {
		key := strings.ToLower(row.CategoryName)
		categoryID, ok := categoryIDs[key]
		if !ok {
			categoryID = uuid.New().String()
			category := &domain.Category{
				CategoryID:   categoryID,
				CategoryName: row.CategoryName,
			}
			if err := category.Validate(); err != nil {
				return fmt.Errorf("category %q: %w", row.CategoryName, err)
			}
			if err := categoryStore.Put(ctx, category); err != nil {
				return fmt.Errorf("put category %q: %w", row.CategoryName, err)
			}
			categoryIDs[key] = categoryID
			logger.Info("category created",
				slog.String("category_id", categoryID),
				slog.String("category_name", row.CategoryName))
		}

		exists, err := productStore.ExistsByCategoryAndName(ctx, categoryID, row.ProductName)
		if err != nil {
			return fmt.Errorf("check product %q: %w", row.ProductName, err)
		}
		if exists {
			logger.Info("product already present, skipping",
				slog.String("product_name", row.ProductName))
			continue
		}

		now := time.Now()
		product := &domain.Product{
			ProductID:        uuid.New().String(),
			CategoryID:       categoryID,
			CategoryName:     row.CategoryName,
			ProductName:      row.ProductName,
			UnitCostPrice:    row.UnitCostPrice,
			UnitSellingPrice: row.UnitSellingPrice,
			Quantity:         row.Quantity,
			DateAdded:        now,
			DateUpdated:      now,
		}
		if err := product.Validate(); err != nil {
			return fmt.Errorf("product %q: %w", row.ProductName, err)
		}
		if err := productStore.Put(ctx, product); err != nil {
			return fmt.Errorf("put product %q: %w", row.ProductName, err)
		}
		seeded++
	}

	fmt.Printf("\n=== Seeding Summary ===\n")
	fmt.Printf("Rows parsed:      %d\n", len(rows))
	fmt.Printf("Products written: %d\n", seeded)
	fmt.Printf("Categories known: %d\n", len(categoryIDs))

	return nil
}

func loadWorkbook(path string) ([]catalogRow, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.Sheets[0]
	var rows []catalogRow
	rowIndex := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		rowIndex++
		if rowIndex == 1 {
			// Header row
			return nil
		}

		cells := make([]string, workbookColumns)
		for i := 0; i < workbookColumns; i++ {
			cells[i] = strings.TrimSpace(r.GetCell(i).String())
		}
		if cells[0] == "" && cells[1] == "" {
			return nil
		}

		row, err := parseRow(cells)
		if err != nil {
			return fmt.Errorf("row %d: %w", rowIndex, err)
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func parseRow(cells []string) (catalogRow, error) {
	if cells[0] == "" {
		return catalogRow{}, fmt.Errorf("missing category")
	}
	if cells[1] == "" {
		return catalogRow{}, fmt.Errorf("missing product name")
	}

	cost, err := decimal.NewFromString(cleanNumber(cells[2]))
	if err != nil {
		return catalogRow{}, fmt.Errorf("bad cost price %q: %w", cells[2], err)
	}
	price, err := decimal.NewFromString(cleanNumber(cells[3]))
	if err != nil {
		return catalogRow{}, fmt.Errorf("bad selling price %q: %w", cells[3], err)
	}
	quantity, err := strconv.Atoi(cleanNumber(cells[4]))
	if err != nil {
		return catalogRow{}, fmt.Errorf("bad quantity %q: %w", cells[4], err)
	}

	return catalogRow{
		CategoryName:     cells[0],
		ProductName:      cells[1],
		UnitCostPrice:    cost,
		UnitSellingPrice: price,
		Quantity:         quantity,
	}, nil
}

func cleanNumber(val string) string {
	val = strings.TrimSpace(val)
	val = strings.TrimPrefix(val, "$")
	val = strings.ReplaceAll(val, ",", "")
	if val == "" {
		return "0"
	}
	return val
}

func sampleCatalog() []catalogRow {
	entries := []struct {
		category string
		name     string
		cost     float64
		price    float64
		quantity int
	}{
		{"Beverages", "Sparkling Water 500ml", 0.80, 1.50, 240},
		{"Beverages", "Cold Brew Coffee 330ml", 1.60, 3.20, 96},
		{"Beverages", "Orange Juice 1L", 1.90, 3.50, 60},
		{"Snacks", "Sea Salt Crisps 150g", 0.95, 2.10, 180},
		{"Snacks", "Trail Mix 200g", 1.70, 3.80, 90},
		{"Dairy", "Greek Yogurt 500g", 1.40, 2.90, 48},
		{"Dairy", "Aged Cheddar 250g", 2.60, 5.40, 36},
		{"Produce", "Bananas 1kg", 0.70, 1.60, 120},
		{"Produce", "Roma Tomatoes 1kg", 1.10, 2.40, 84},
		{"Household", "Dish Soap 750ml", 1.20, 2.80, 72},
		{"Household", "Paper Towels 6pk", 3.10, 6.50, 54},
	}

	rows := make([]catalogRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, catalogRow{
			CategoryName:     e.category,
			ProductName:      e.name,
			UnitCostPrice:    decimal.NewFromFloat(e.cost),
			UnitSellingPrice: decimal.NewFromFloat(e.price),
			Quantity:         e.quantity,
		})
	}
	return rows
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
