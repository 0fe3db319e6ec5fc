// internal/adapters/dynamo/category_store.go
package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/adekola/stockpoint-be/internal/core/domain"
	"github.com/adekola/stockpoint-be/internal/core/ports"
)

// CategoryStore is a DynamoDB-backed category store
type CategoryStore struct {
	client *Client
	table  string
	logger *slog.Logger
}

// NewCategoryStore creates a new category store
func NewCategoryStore(client *Client, logger *slog.Logger) *CategoryStore {
	return &CategoryStore{
		client: client,
		table:  client.config.CategoriesTable,
		logger: logger.With(slog.String("store", "categories")),
	}
}

// Put writes a category
func (s *CategoryStore) Put(ctx context.Context, category *domain.Category) error {
	item, err := attributevalue.MarshalMap(categoryRecord{
		CategoryID:   category.CategoryID,
		CategoryName: category.CategoryName,
	})
	if err != nil {
		return fmt.Errorf("marshal category %s: %w", category.CategoryID, err)
	}

	_, err = s.client.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return mapError("put category", err)
	}
	return nil
}

// ExistsByName reports whether a category with the given name exists.
// The table is small enough that a filtered scan is fine here.
func (s *CategoryStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	out, err := s.client.db.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.table),
		FilterExpression: aws.String("category_name = :name"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return false, mapError("check category exists", err)
	}
	return out.Count > 0, nil
}

// List returns all categories
func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.db.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, mapError("scan categories", err)
		}

		for _, item := range out.Items {
			var record categoryRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("unmarshal category: %w", err)
			}
			categories = append(categories, domain.Category{
				CategoryID:   record.CategoryID,
				CategoryName: record.CategoryName,
			})
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return categories, nil
}

var _ ports.CategoryStore = (*CategoryStore)(nil)
