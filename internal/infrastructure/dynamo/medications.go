package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/medimate-api/internal/domain"
)

// MedicationRepo provides typed DynamoDB operations for the medications table.
// PK: user_id, SK: medication_id — one partition per user.
type MedicationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMedicationRepo(client *dynamodb.Client, tableName string) *MedicationRepo {
	return &MedicationRepo{client: client, tableName: tableName}
}

func (r *MedicationRepo) Put(ctx context.Context, m *domain.Medication) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal medication: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *MedicationRepo) Get(ctx context.Context, userID, medicationID string) (*domain.Medication, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "medication_id", medicationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("medication not found: %w", domain.ErrNotFound)
	}
	var m domain.Medication
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Medication, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var meds []domain.Medication
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &meds); err != nil {
		return nil, err
	}
	return meds, nil
}

func (r *MedicationRepo) Update(ctx context.Context, userID, medicationID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("user_id", userID, "medication_id", medicationID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(medication_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("medication not found: %w", domain.ErrNotFound)
		}
	}
	return err
}

func (r *MedicationRepo) Delete(ctx context.Context, userID, medicationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "medication_id", medicationID),
	})
	return err
}

// ScanAll pages through every medication record. Used by the reminder worker;
// the table stays small enough that a scan per tick is acceptable.
func (r *MedicationRepo) ScanAll(ctx context.Context) ([]domain.Medication, error) {
	var meds []domain.Medication
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Medication
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		meds = append(meds, page...)
		if out.LastEvaluatedKey == nil {
			return meds, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
