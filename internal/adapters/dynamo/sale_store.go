// internal/adapters/dynamo/sale_store.go
package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
)

const dateSoldIndex = "date-sold-index"

// SaleStore is a DynamoDB-backed sale store
type SaleStore struct {
	client *Client
	table  string
	logger *slog.Logger
}

// NewSaleStore creates a new sale store
func NewSaleStore(client *Client, logger *slog.Logger) *SaleStore {
	return &SaleStore{
		client: client,
		table:  client.config.SalesTable,
		logger: logger.With(slog.String("store", "sales")),
	}
}

// Get retrieves a sale by id
func (s *SaleStore) Get(ctx context.Context, salesID string) (*domain.Sale, error) {
	out, err := s.client.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"sales_id": &types.AttributeValueMemberS{Value: salesID},
		},
	})
	if err != nil {
		return nil, mapError("get sale", err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("sale %s: %w", salesID, domain.ErrNotFound)
	}

	var record saleRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal sale %s: %w", salesID, err)
	}
	return record.toDomain()
}

// Put writes a sale, replacing any existing record with the same id
func (s *SaleStore) Put(ctx context.Context, sale *domain.Sale) error {
	item, err := attributevalue.MarshalMap(toSaleRecord(sale))
	if err != nil {
		return fmt.Errorf("marshal sale %s: %w", sale.SalesID, err)
	}

	_, err = s.client.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return mapError("put sale", err)
	}
	return nil
}

// FindByDate returns all sales recorded on the given calendar day
func (s *SaleStore) FindByDate(ctx context.Context, day time.Time) ([]domain.Sale, error) {
	var sales []domain.Sale

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.db.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			IndexName:              aws.String(dateSoldIndex),
			KeyConditionExpression: aws.String("sold_on = :day"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":day": &types.AttributeValueMemberS{Value: day.UTC().Format("2006-01-02")},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, mapError("query sales by date", err)
		}

		for _, item := range out.Items {
			var record saleRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("unmarshal sale: %w", err)
			}
			sale, err := record.toDomain()
			if err != nil {
				return nil, err
			}
			sales = append(sales, *sale)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return sales, nil
}

// List returns a page of sales and an opaque cursor for the next page
func (s *SaleStore) List(ctx context.Context, limit int, cursor string) ([]domain.Sale, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
		Limit:     aws.Int32(int32(limit)),
	}
	if cursor != "" {
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			"sales_id": &types.AttributeValueMemberS{Value: cursor},
		}
	}

	out, err := s.client.db.Scan(ctx, input)
	if err != nil {
		return nil, "", mapError("scan sales", err)
	}

	sales := make([]domain.Sale, 0, len(out.Items))
	for _, item := range out.Items {
		var record saleRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, "", fmt.Errorf("unmarshal sale: %w", err)
		}
		sale, err := record.toDomain()
		if err != nil {
			return nil, "", err
		}
		sales = append(sales, *sale)
	}

	next := ""
	if key, ok := out.LastEvaluatedKey["sales_id"].(*types.AttributeValueMemberS); ok {
		next = key.Value
	}
	return sales, next, nil
}

var _ ports.SaleStore = (*SaleStore)(nil)
