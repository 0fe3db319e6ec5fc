// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dynamo_a "github.com/adekola/stockpoint-be/internal/adapters/dynamo"
	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/pkg/config"
	"github.com/adekola/stockpoint-be/internal/pkg/logger"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestDynamo represents a DynamoDB Local container for integration tests
type TestDynamo struct {
	Client   *dynamo_a.Client
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *dynamo_a.Config
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestAppLogger returns a test logger wrapped in the application logger type
func TestAppLogger() *logger.Logger {
	level := "error"
	if testing.Verbose() {
		level = "debug"
	}
	return logger.NewLogger(&logger.LogConfig{
		Level:  level,
		Format: "text",
		Output: "stdout",
	})
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupTestDynamo starts a DynamoDB Local container and creates the
// three application tables. Tests that call it are skipped when Docker
// is not available.
func SetupTestDynamo(t *testing.T) *TestDynamo {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Docker not available: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker not available: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "amazon/dynamodb-local",
		Tag:        "2.5.2",
		Cmd:        []string{"-jar", "DynamoDBLocal.jar", "-inMemory"},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start DynamoDB Local container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	cfg := dynamo_a.DefaultConfig()
	cfg.Endpoint = fmt.Sprintf("http://localhost:%s", resource.GetPort("8000/tcp"))
	cfg.AccessKeyID = "test"
	cfg.SecretAccessKey = "test"
	cfg.ProductsTable = "test_products"
	cfg.SalesTable = "test_sales"
	cfg.CategoriesTable = "test_categories"

	var client *dynamo_a.Client
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		client, err = dynamo_a.NewClient(ctx, cfg, TestLogger())
		if err != nil {
			return err
		}
		_, err = client.DB().ListTables(ctx, &dynamodb.ListTablesInput{})
		return err
	})
	require.NoError(t, err, "Could not connect to DynamoDB Local")

	createTestTables(t, client, cfg)

	return &TestDynamo{
		Client:   client,
		Resource: resource,
		Pool:     pool,
		Config:   cfg,
	}
}

func createTestTables(t *testing.T, client *dynamo_a.Client, cfg *dynamo_a.Config) {
	t.Helper()
	ctx := context.Background()

	throughput := &ddbtypes.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(5),
		WriteCapacityUnits: aws.Int64(5),
	}

	_, err := client.DB().CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(cfg.ProductsTable),
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String("product_id"), AttributeType: ddbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("category_id"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String("product_id"), KeyType: ddbtypes.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []ddbtypes.GlobalSecondaryIndex{
			{
				IndexName: aws.String("category-index"),
				KeySchema: []ddbtypes.KeySchemaElement{
					{AttributeName: aws.String("category_id"), KeyType: ddbtypes.KeyTypeHash},
				},
				Projection:            &ddbtypes.Projection{ProjectionType: ddbtypes.ProjectionTypeAll},
				ProvisionedThroughput: throughput,
			},
		},
		ProvisionedThroughput: throughput,
	})
	require.NoError(t, err, "Could not create products table")

	_, err = client.DB().CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(cfg.SalesTable),
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String("sales_id"), AttributeType: ddbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("sold_on"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String("sales_id"), KeyType: ddbtypes.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []ddbtypes.GlobalSecondaryIndex{
			{
				IndexName: aws.String("date-sold-index"),
				KeySchema: []ddbtypes.KeySchemaElement{
					{AttributeName: aws.String("sold_on"), KeyType: ddbtypes.KeyTypeHash},
				},
				Projection:            &ddbtypes.Projection{ProjectionType: ddbtypes.ProjectionTypeAll},
				ProvisionedThroughput: throughput,
			},
		},
		ProvisionedThroughput: throughput,
	})
	require.NoError(t, err, "Could not create sales table")

	_, err = client.DB().CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(cfg.CategoriesTable),
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String("category_id"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String("category_id"), KeyType: ddbtypes.KeyTypeHash},
		},
		ProvisionedThroughput: throughput,
	})
	require.NoError(t, err, "Could not create categories table")
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Dynamo: config.DynamoConfig{
			Endpoint:        "http://localhost:8000",
			ProductsTable:   "test_products",
			SalesTable:      "test_sales",
			CategoriesTable: "test_categories",
			RequestTimeout:  10 * time.Second,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Asynq: config.AsynqConfig{
			RedisAddr:        "localhost:6379",
			Concurrency:      2,
			Queues:           map[string]int{"default": 1},
			RetryMax:         1,
			WeeklyReportCron: "0 7 * * 1",
		},
		Report: config.ReportConfig{
			SenderEmail: "reports@test.local",
			AdminEmails: []string{"admin@test.local"},
			URLTTL:      24 * time.Hour,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret",
			JWTExpiration:     24 * time.Hour,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestProduct creates a test product
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	product := &domain.Product{
		ProductID:        uuid.New().String(),
		CategoryID:       "cat-beverages",
		CategoryName:     "Beverages",
		ProductName:      "Sparkling Water 500ml",
		UnitCostPrice:    decimal.NewFromFloat(0.80),
		UnitSellingPrice: decimal.NewFromFloat(1.50),
		Quantity:         100,
		DateAdded:        time.Now().AddDate(0, -1, 0),
		DateUpdated:      time.Now(),
	}

	for _, override := range overrides {
		override(product)
	}

	return product
}

// CreateTestProducts creates multiple test products
func CreateTestProducts(count int) []domain.Product {
	categories := []string{"cat-beverages", "cat-snacks", "cat-dairy", "cat-produce"}

	products := make([]domain.Product, count)
	for i := 0; i < count; i++ {
		products[i] = *CreateTestProduct(func(p *domain.Product) {
			p.ProductName = fmt.Sprintf("Test Product %d", i+1)
			p.CategoryID = categories[i%len(categories)]
			p.UnitSellingPrice = decimal.NewFromFloat(float64(1+i) * 2.50)
			p.Quantity = 50 + i*10
		})
	}

	return products
}

// CreateTestLineItem creates a line item priced against the given product
func CreateTestLineItem(product *domain.Product, quantity int) domain.LineItem {
	return domain.LineItem{
		ProductID:    product.ProductID,
		QuantitySold: quantity,
		UnitPrice:    product.UnitSellingPrice,
		TotalPrice:   product.UnitSellingPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// CreateTestSale creates a persisted-shaped sale from line items
func CreateTestSale(items ...domain.LineItem) *domain.Sale {
	return domain.NewSale(items)
}

// FakeProductStore is an in-memory ProductStore with the same
// conditional-write semantics as the DynamoDB adapter.
type FakeProductStore struct {
	mu       sync.Mutex
	products map[string]domain.Product

	// FailConditionalPuts makes the next N conditional writes return
	// domain.ErrConflict regardless of the stored quantity.
	FailConditionalPuts int

	// FailRestores makes the next N conditional writes that raise a
	// quantity return domain.ErrConflict, leaving deductions untouched.
	FailRestores int

	ConditionalPutCalls int
}

// NewFakeProductStore creates an empty in-memory product store
func NewFakeProductStore(seed ...*domain.Product) *FakeProductStore {
	s := &FakeProductStore{products: make(map[string]domain.Product)}
	for _, p := range seed {
		s.products[p.ProductID] = *p
	}
	return s
}

func (s *FakeProductStore) Get(_ context.Context, productID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("get product %s: %w", productID, domain.ErrNotFound)
	}
	copied := p
	return &copied, nil
}

func (s *FakeProductStore) Put(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ProductID] = *product
	return nil
}

func (s *FakeProductStore) ConditionalPut(_ context.Context, product *domain.Product, expectedQuantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ConditionalPutCalls++
	if s.FailConditionalPuts > 0 {
		s.FailConditionalPuts--
		return fmt.Errorf("conditional put product %s: %w", product.ProductID, domain.ErrConflict)
	}
	if s.FailRestores > 0 && product.Quantity > expectedQuantity {
		s.FailRestores--
		return fmt.Errorf("conditional put product %s: %w", product.ProductID, domain.ErrConflict)
	}

	current, ok := s.products[product.ProductID]
	if !ok || current.Quantity != expectedQuantity {
		return fmt.Errorf("conditional put product %s: %w", product.ProductID, domain.ErrConflict)
	}
	s.products[product.ProductID] = *product
	return nil
}

func (s *FakeProductStore) FindByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Product
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sortProducts(out)
	return out, nil
}

func (s *FakeProductStore) ExistsByCategoryAndName(_ context.Context, categoryID, productName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.CategoryID == categoryID && strings.EqualFold(p.ProductName, productName) {
			return true, nil
		}
	}
	return false, nil
}

func (s *FakeProductStore) List(_ context.Context, limit int, cursor string) ([]domain.Product, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, p)
	}
	sortProducts(all)

	start := 0
	if cursor != "" {
		for i, p := range all {
			if p.ProductID == cursor {
				start = i + 1
				break
			}
		}
	}
	if start >= len(all) {
		return nil, "", nil
	}

	end := start + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}

	page := all[start:end]
	next := ""
	if end < len(all) {
		next = page[len(page)-1].ProductID
	}
	return page, next, nil
}

// Quantity returns the stored quantity for a product id
func (s *FakeProductStore) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Quantity
}

func sortProducts(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].ProductID < products[j].ProductID
	})
}

// FakeSaleStore is an in-memory SaleStore
type FakeSaleStore struct {
	mu    sync.Mutex
	sales map[string]domain.Sale

	// PutErr, when set, is returned by the next Put call.
	PutErr error
}

// NewFakeSaleStore creates an empty in-memory sale store
func NewFakeSaleStore(seed ...*domain.Sale) *FakeSaleStore {
	s := &FakeSaleStore{sales: make(map[string]domain.Sale)}
	for _, sale := range seed {
		s.sales[sale.SalesID] = *sale
	}
	return s
}

func (s *FakeSaleStore) Get(_ context.Context, salesID string) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[salesID]
	if !ok {
		return nil, fmt.Errorf("get sale %s: %w", salesID, domain.ErrNotFound)
	}
	copied := sale
	return &copied, nil
}

func (s *FakeSaleStore) Put(_ context.Context, sale *domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PutErr != nil {
		err := s.PutErr
		s.PutErr = nil
		return err
	}
	s.sales[sale.SalesID] = *sale
	return nil
}

func (s *FakeSaleStore) FindByDate(_ context.Context, day time.Time) ([]domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := day.Format("2006-01-02")
	var out []domain.Sale
	for _, sale := range s.sales {
		if sale.DateSold.Format("2006-01-02") == want {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SalesID < out[j].SalesID })
	return out, nil
}

func (s *FakeSaleStore) List(_ context.Context, limit int, cursor string) ([]domain.Sale, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		all = append(all, sale)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SalesID < all[j].SalesID })

	start := 0
	if cursor != "" {
		for i, sale := range all {
			if sale.SalesID == cursor {
				start = i + 1
				break
			}
		}
	}
	if start >= len(all) {
		return nil, "", nil
	}

	end := start + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}

	page := all[start:end]
	next := ""
	if end < len(all) {
		next = page[len(page)-1].SalesID
	}
	return page, next, nil
}

// FakeCategoryStore is an in-memory CategoryStore
type FakeCategoryStore struct {
	mu         sync.Mutex
	categories map[string]domain.Category
}

// NewFakeCategoryStore creates an empty in-memory category store
func NewFakeCategoryStore(seed ...*domain.Category) *FakeCategoryStore {
	s := &FakeCategoryStore{categories: make(map[string]domain.Category)}
	for _, c := range seed {
		s.categories[c.CategoryID] = *c
	}
	return s
}

func (s *FakeCategoryStore) Put(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[category.CategoryID] = *category
	return nil
}

func (s *FakeCategoryStore) ExistsByName(_ context.Context, categoryName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if strings.EqualFold(c.CategoryName, categoryName) {
			return true, nil
		}
	}
	return false, nil
}

func (s *FakeCategoryStore) List(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out, nil
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
