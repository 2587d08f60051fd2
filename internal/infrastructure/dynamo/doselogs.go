package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/medimate-api/internal/domain"
)

// DoseLogRepo provides read access to the dose_logs table.
// PK: user_id, SK: log_id (date_medication_slot). Writes go through Ledger
// only — the inventory invariant depends on that.
type DoseLogRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDoseLogRepo(client *dynamodb.Client, tableName string) *DoseLogRepo {
	return &DoseLogRepo{client: client, tableName: tableName}
}

func (r *DoseLogRepo) Get(ctx context.Context, userID, logID string) (*domain.DoseLogEntry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "log_id", logID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("dose log not found: %w", domain.ErrNotFound)
	}
	var e domain.DoseLogEntry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByDate returns all of a user's entries for one calendar date. Log ids
// start with the date string, so a begins_with key condition covers it.
func (r *DoseLogRepo) ListByDate(ctx context.Context, userID, date string) ([]domain.DoseLogEntry, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid AND begins_with(log_id, :d)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":d":   &types.AttributeValueMemberS{Value: date},
		},
	})
	if err != nil {
		return nil, err
	}
	var entries []domain.DoseLogEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
