package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"seismic-reports-scraper/internal/models"
	"seismic-reports-scraper/internal/utils"
)

// DynamoDB limits batch writes to 25 items per request
const maxBatchWriteItems = 25

// How many times to resubmit unprocessed items before giving up
const maxUnprocessedRetries = 3

// DynamoDBService stores scraped seismic events
type DynamoDBService struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoDBService creates a service around an existing client
func NewDynamoDBService(client *dynamodb.Client, table string) *DynamoDBService {
	return &DynamoDBService{client: client, table: table}
}

// NewDynamoDBServiceFromConfig creates a service using the default AWS
// configuration chain
func NewDynamoDBServiceFromConfig(ctx context.Context, table string) (*DynamoDBService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &DynamoDBService{client: dynamodb.NewFromConfig(cfg), table: table}, nil
}

// TableName returns the configured table name
func (s *DynamoDBService) TableName() string {
	return s.table
}

// PutEvent stores a single event
func (s *DynamoDBService) PutEvent(ctx context.Context, event *models.SeismicEvent) error {
	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put event: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID
func (s *DynamoDBService) GetEvent(ctx context.Context, id string) (*models.SeismicEvent, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("event %s not found", id)
	}

	var event models.SeismicEvent
	if err := attributevalue.UnmarshalMap(result.Item, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

// StoreEvents writes events in batches of 25, resubmitting unprocessed items
// with a short backoff. Returns the number of events written.
func (s *DynamoDBService) StoreEvents(ctx context.Context, events []models.SeismicEvent) (int, error) {
	if len(events) == 0 {
		utils.GetLogger().Info("no events to store in DynamoDB")
		return 0, nil
	}

	stored := 0
	for start := 0; start < len(events); start += maxBatchWriteItems {
		end := start + maxBatchWriteItems
		if end > len(events) {
			end = len(events)
		}

		written, err := s.writeBatch(ctx, events[start:end])
		stored += written
		if err != nil {
			return stored, err
		}
	}

	utils.GetLogger().Info("stored events in DynamoDB",
		zap.Int("events", stored),
		zap.String("table", s.table))

	return stored, nil
}

// writeBatch submits one BatchWriteItem request and retries unprocessed items
func (s *DynamoDBService) writeBatch(ctx context.Context, events []models.SeismicEvent) (int, error) {
	requests := make([]types.WriteRequest, 0, len(events))
	for i := range events {
		item, err := attributevalue.MarshalMap(&events[i])
		if err != nil {
			return 0, fmt.Errorf("failed to marshal event %s: %w", events[i].ID, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	pending := map[string][]types.WriteRequest{s.table: requests}

	for attempt := 0; len(pending[s.table]) > 0; attempt++ {
		if attempt > maxUnprocessedRetries {
			return len(events) - len(pending[s.table]),
				fmt.Errorf("gave up on %d unprocessed items after %d retries", len(pending[s.table]), maxUnprocessedRetries)
		}

		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			case <-ctx.Done():
				return len(events) - len(pending[s.table]), ctx.Err()
			}
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return len(events) - len(pending[s.table]), fmt.Errorf("batch write failed: %w", err)
		}

		if len(out.UnprocessedItems) == 0 {
			return len(events), nil
		}
		pending = out.UnprocessedItems
	}

	return len(events), nil
}
