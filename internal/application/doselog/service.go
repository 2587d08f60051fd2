package doselog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/medimate-api/internal/domain"
	"github.com/medimate-api/internal/infrastructure/dynamo"
	"github.com/medimate-api/internal/pkg/numeric"
	"github.com/medimate-api/internal/pkg/validate"
)

// Slot identifies a scheduled dose: a medication plus a time of day.
type Slot struct {
	MedicationID string `json:"medication_id" validate:"required"`
	Time         string `json:"time" validate:"required"`
}

type Service interface {
	// Log records a dose as taken for today's slot and decrements inventory.
	// Logging an already-logged slot is a no-op returning the existing entry.
	Log(ctx context.Context, userID string, slot Slot) (*domain.DoseLogEntry, error)
	// Unlog deletes today's entry for the slot and restores the inventory.
	// The entry must exist.
	Unlog(ctx context.Context, userID string, slot Slot) error
	ListDay(ctx context.Context, userID, date string) ([]domain.DoseLogEntry, error)
}

type medicationStore interface {
	Get(ctx context.Context, userID, medicationID string) (*domain.Medication, error)
}

type logStore interface {
	Get(ctx context.Context, userID, logID string) (*domain.DoseLogEntry, error)
	ListByDate(ctx context.Context, userID, date string) ([]domain.DoseLogEntry, error)
}

type ledger interface {
	CommitLog(ctx context.Context, entry *domain.DoseLogEntry, inv dynamo.InventoryWrite) error
	CommitUnlog(ctx context.Context, userID, logID string, inv dynamo.InventoryWrite) error
}

// stockAlerter is poked after a successful log so low inventory can surface
// an alert. Failures there never fail the dose log itself.
type stockAlerter interface {
	CheckStock(ctx context.Context, userID, medicationID string) error
}

type service struct {
	meds   medicationStore
	logs   logStore
	ledger ledger
	alerts stockAlerter
	now    func() time.Time
}

func NewService(meds medicationStore, logs logStore, ledger ledger, alerts stockAlerter) Service {
	return &service{meds: meds, logs: logs, ledger: ledger, alerts: alerts, now: time.Now}
}

func (s *service) Log(ctx context.Context, userID string, slot Slot) (*domain.DoseLogEntry, error) {
	if err := validate.Struct(slot); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	med, err := s.meds.Get(ctx, userID, slot.MedicationID)
	if err != nil {
		return nil, err
	}

	inventory := numeric.Normalize(med.CurrentInventory)
	dose := numeric.Normalize(med.DoseQuantity)
	if inventory < dose {
		return nil, fmt.Errorf("inventory %d cannot cover dose %d: %w",
			inventory, dose, domain.ErrInsufficientInventory)
	}

	now := s.now().UTC()
	entry := &domain.DoseLogEntry{
		LogID:         domain.DoseLogID(domain.DateString(now), med.MedicationID, slot.Time),
		UserID:        userID,
		MedicationID:  med.MedicationID,
		ScheduledSlot: slot.Time,
		DateString:    domain.DateString(now),
		Action:        domain.ActionTaken,
		TakenAt:       now,
		DosageTaken:   dose,
	}
	err = s.ledger.CommitLog(ctx, entry, dynamo.InventoryWrite{
		UserID:        userID,
		MedicationID:  med.MedicationID,
		NewInventory:  inventory - dose,
		SeenUpdatedAt: med.UpdatedAt,
		NewUpdatedAt:  now,
	})
	if errors.Is(err, domain.ErrAlreadyLogged) {
		// Slot already logged today. Nothing was written, inventory is
		// untouched; hand back the entry that is already there.
		return s.logs.Get(ctx, userID, entry.LogID)
	}
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		if aerr := s.alerts.CheckStock(ctx, userID, med.MedicationID); aerr != nil {
			log.Printf("doselog: stock check for %s failed: %v", med.MedicationID, aerr)
		}
	}
	return entry, nil
}

func (s *service) Unlog(ctx context.Context, userID string, slot Slot) error {
	if err := validate.Struct(slot); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	med, err := s.meds.Get(ctx, userID, slot.MedicationID)
	if err != nil {
		return err
	}

	inventory := numeric.Normalize(med.CurrentInventory)
	dose := numeric.Normalize(med.DoseQuantity)

	now := s.now().UTC()
	logID := domain.DoseLogID(domain.DateString(now), med.MedicationID, slot.Time)
	return s.ledger.CommitUnlog(ctx, userID, logID, dynamo.InventoryWrite{
		UserID:        userID,
		MedicationID:  med.MedicationID,
		NewInventory:  inventory + dose,
		SeenUpdatedAt: med.UpdatedAt,
		NewUpdatedAt:  now,
	})
}

func (s *service) ListDay(ctx context.Context, userID, date string) ([]domain.DoseLogEntry, error) {
	if date == "" {
		date = domain.DateString(s.now())
	}
	return s.logs.ListByDate(ctx, userID, date)
}
