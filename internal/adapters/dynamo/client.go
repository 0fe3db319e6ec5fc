// internal/adapters/dynamo/client.go
package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Config holds DynamoDB configuration
type Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	ProductsTable   string
	SalesTable      string
	CategoriesTable string
	RequestTimeout  time.Duration
}

// DefaultConfig returns default DynamoDB configuration
func DefaultConfig() *Config {
	return &Config{
		Region:          "us-east-1",
		ProductsTable:   "products",
		SalesTable:      "sales",
		CategoriesTable: "categories",
		RequestTimeout:  time.Second * 10,
	}
}

// Client wraps the DynamoDB client with table configuration
type Client struct {
	db     *dynamodb.Client
	config *Config
	logger *slog.Logger
}

// NewClient creates a new DynamoDB client. An Endpoint override points
// the client at dynamodb-local for development and integration tests.
func NewClient(ctx context.Context, config *Config, logger *slog.Logger) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	db := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})

	client := &Client{
		db:     db,
		config: config,
		logger: logger,
	}

	logger.Info("dynamodb client created",
		slog.String("region", config.Region),
		slog.String("products_table", config.ProductsTable),
		slog.String("sales_table", config.SalesTable),
	)

	return client, nil
}

// DB returns the underlying DynamoDB client
func (c *Client) DB() *dynamodb.Client {
	return c.db
}

// Ping verifies connectivity by describing the products table
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	_, err := c.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.config.ProductsTable),
	})
	if err != nil {
		return fmt.Errorf("failed to ping dynamodb: %w", err)
	}
	return nil
}

// Health returns store health information
func (c *Client) Health(ctx context.Context) map[string]interface{} {
	health := map[string]interface{}{
		"status": "healthy",
		"region": c.config.Region,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*2)
	defer cancel()

	for _, table := range []string{c.config.ProductsTable, c.config.SalesTable, c.config.CategoriesTable} {
		out, err := c.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(table),
		})
		if err != nil {
			health["status"] = "unhealthy"
			health["error"] = err.Error()
			return health
		}
		health[table] = string(out.Table.TableStatus)
	}

	return health
}
