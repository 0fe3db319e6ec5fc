// internal/adapters/dynamo/product_store.go
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

const categoryIndex = "category-index"

// ProductStore is a DynamoDB-backed product store
type ProductStore struct {
	client *Client
	table  string
	logger *slog.Logger
}

// NewProductStore creates a new product store
func NewProductStore(client *Client, logger *slog.Logger) *ProductStore {
	return &ProductStore{
		client: client,
		table:  client.config.ProductsTable,
		logger: logger.With(slog.String("store", "products")),
	}
}

// Get retrieves a product by id
func (s *ProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	out, err := s.client.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, mapError("get product", err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}

	var record productRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal product %s: %w", productID, err)
	}
	return record.toDomain()
}

// Put writes a product unconditionally
func (s *ProductStore) Put(ctx context.Context, product *domain.Product) error {
	item, err := attributevalue.MarshalMap(toProductRecord(product))
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", product.ProductID, err)
	}

	_, err = s.client.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return mapError("put product", err)
	}
	return nil
}

// ConditionalPut writes a product only if the stored quantity still
// matches expectedQuantity, the optimistic check that serializes
// concurrent stock updates.
func (s *ProductStore) ConditionalPut(ctx context.Context, product *domain.Product, expectedQuantity int) error {
	item, err := attributevalue.MarshalMap(toProductRecord(product))
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", product.ProductID, err)
	}

	_, err = s.client.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("quantity = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedQuantity)},
		},
	})
	if err != nil {
		return mapError("conditional put product", err)
	}
	return nil
}

// FindByCategory returns all products in a category via the category
// index
func (s *ProductStore) FindByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	var products []domain.Product

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.db.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			IndexName:              aws.String(categoryIndex),
			KeyConditionExpression: aws.String("category_id = :category"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":category": &types.AttributeValueMemberS{Value: categoryID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, mapError("query products by category", err)
		}

		batch, err := unmarshalProducts(out.Items)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return products, nil
}

// ExistsByCategoryAndName reports whether a product with the given name
// already exists in the category
func (s *ProductStore) ExistsByCategoryAndName(ctx context.Context, categoryID, productName string) (bool, error) {
	out, err := s.client.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(categoryIndex),
		KeyConditionExpression: aws.String("category_id = :category"),
		FilterExpression:       aws.String("product_name = :name"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": &types.AttributeValueMemberS{Value: categoryID},
			":name":     &types.AttributeValueMemberS{Value: productName},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return false, mapError("check product exists", err)
	}
	return out.Count > 0, nil
}

// List returns a page of products and an opaque cursor for the next
// page
func (s *ProductStore) List(ctx context.Context, limit int, cursor string) ([]domain.Product, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
		Limit:     aws.Int32(int32(limit)),
	}
	if cursor != "" {
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: cursor},
		}
	}

	out, err := s.client.db.Scan(ctx, input)
	if err != nil {
		return nil, "", mapError("scan products", err)
	}

	products, err := unmarshalProducts(out.Items)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if key, ok := out.LastEvaluatedKey["product_id"].(*types.AttributeValueMemberS); ok {
		next = key.Value
	}
	return products, next, nil
}

func unmarshalProducts(items []map[string]types.AttributeValue) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		var record productRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		product, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

var _ ports.ProductStore = (*ProductStore)(nil)
