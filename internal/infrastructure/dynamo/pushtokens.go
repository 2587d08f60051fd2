package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/medimate-api/internal/domain"
)

// PushTokenRepo stores the per-user delivery token singleton.
// PK: user_id — at most one token per user by construction; Put overwrites.
type PushTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPushTokenRepo(client *dynamodb.Client, tableName string) *PushTokenRepo {
	return &PushTokenRepo{client: client, tableName: tableName}
}

func (r *PushTokenRepo) Get(ctx context.Context, userID string) (*domain.PushToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("push token not found: %w", domain.ErrNotFound)
	}
	var tok domain.PushToken
	if err := attributevalue.UnmarshalMap(out.Item, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *PushTokenRepo) Put(ctx context.Context, tok *domain.PushToken) error {
	item, err := attributevalue.MarshalMap(tok)
	if err != nil {
		return fmt.Errorf("marshal push token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Delete removes the token record. Deleting an absent record is not an error;
// the reconciler relies on that for idempotent cleanup.
func (r *PushTokenRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	return err
}
