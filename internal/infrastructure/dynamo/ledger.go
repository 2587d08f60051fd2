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

// Ledger commits the paired dose-log/inventory writes as one
// TransactWriteItems call: either both land or neither does.
//
// Each commit carries two guards. The log item guard makes the composite-key
// identity authoritative (no duplicate entry, no double decrement). The
// medication guard is an optimistic check on the updated_at the caller read,
// so two sessions racing on the same medication cannot lose an update.
type Ledger struct {
	client    *dynamodb.Client
	logTable  string
	medTable  string
}

func NewLedger(client *dynamodb.Client, logTable, medTable string) *Ledger {
	return &Ledger{client: client, logTable: logTable, medTable: medTable}
}

// InventoryWrite describes the medication-side half of a ledger commit.
type InventoryWrite struct {
	UserID        string
	MedicationID  string
	NewInventory  int
	SeenUpdatedAt interface{} // raw updated_at read before the commit
	NewUpdatedAt  interface{}
}

// Transaction item order; cancellation reasons are reported per index.
const (
	txnIdxLog = 0
	txnIdxMed = 1
)

// CommitLog writes the dose log entry and the decremented inventory
// atomically. Returns domain.ErrAlreadyLogged when an entry already exists at
// the same key (nothing is written) and domain.ErrConflict when the
// medication changed since it was read.
func (l *Ledger) CommitLog(ctx context.Context, entry *domain.DoseLogEntry, inv InventoryWrite) error {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal dose log: %w", err)
	}

	medUpdate, err := l.inventoryUpdate(inv)
	if err != nil {
		return err
	}

	_, err = l.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(l.logTable),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(log_id)"),
				},
			},
			{Update: medUpdate},
		},
	})
	return l.mapCancellation(err, domain.ErrAlreadyLogged)
}

// CommitUnlog deletes the dose log entry and restores the inventory
// atomically. Returns domain.ErrNotFound when no entry exists at the key —
// inventory is never credited without a matching logged dose.
func (l *Ledger) CommitUnlog(ctx context.Context, userID, logID string, inv InventoryWrite) error {
	medUpdate, err := l.inventoryUpdate(inv)
	if err != nil {
		return err
	}

	_, err = l.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:           aws.String(l.logTable),
					Key:                 compositeKey("user_id", userID, "log_id", logID),
					ConditionExpression: aws.String("attribute_exists(log_id)"),
				},
			},
			{Update: medUpdate},
		},
	})
	return l.mapCancellation(err, fmt.Errorf("dose log not found: %w", domain.ErrNotFound))
}

func (l *Ledger) inventoryUpdate(inv InventoryWrite) (*types.Update, error) {
	newInv, err := attributevalue.Marshal(inv.NewInventory)
	if err != nil {
		return nil, err
	}
	seen, err := attributevalue.Marshal(inv.SeenUpdatedAt)
	if err != nil {
		return nil, err
	}
	now, err := attributevalue.Marshal(inv.NewUpdatedAt)
	if err != nil {
		return nil, err
	}
	return &types.Update{
		TableName:        aws.String(l.medTable),
		Key:              compositeKey("user_id", inv.UserID, "medication_id", inv.MedicationID),
		UpdateExpression: aws.String("SET current_inventory = :inv, updated_at = :now"),
		ConditionExpression: aws.String(
			"attribute_exists(medication_id) AND (attribute_not_exists(updated_at) OR updated_at = :seen)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inv":  newInv,
			":now":  now,
			":seen": seen,
		},
	}, nil
}

// mapCancellation translates a TransactWriteItems failure into domain terms.
// A conditional failure on the log item maps to logErr; one on the medication
// item maps to ErrConflict (the caller's read went stale). Anything else is a
// store failure.
func (l *Ledger) mapCancellation(err error, logErr error) error {
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
				continue
			}
			if i == txnIdxLog {
				return logErr
			}
			return fmt.Errorf("medication changed concurrently: %w", domain.ErrConflict)
		}
	}
	return fmt.Errorf("ledger transaction: %v: %w", err, domain.ErrStoreUnavailable)
}
