package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/medimate-api/internal/domain"
	"github.com/medimate-api/internal/pkg/id"
	"github.com/medimate-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateMedicationRequest) (*domain.Medication, error)
	Get(ctx context.Context, userID, medicationID string) (*domain.Medication, error)
	List(ctx context.Context, userID string) ([]domain.Medication, error)
	// Update patches the provided fields only. Inventory changes here are
	// direct overwrites; dose-driven decrements go through the dose ledger.
	Update(ctx context.Context, userID, medicationID string, req domain.UpdateMedicationRequest) (*domain.Medication, error)
	Delete(ctx context.Context, userID, medicationID string) error
}

type store interface {
	Put(ctx context.Context, m *domain.Medication) error
	Get(ctx context.Context, userID, medicationID string) (*domain.Medication, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Medication, error)
	Update(ctx context.Context, userID, medicationID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID, medicationID string) error
}

type service struct {
	meds store
	now  func() time.Time
}

func NewService(meds store) Service {
	return &service{meds: meds, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateMedicationRequest) (*domain.Medication, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	now := s.now().UTC()
	m := &domain.Medication{
		MedicationID:     id.New(),
		UserID:           userID,
		Name:             req.Name,
		DoseQuantity:     req.DoseQuantity,
		CurrentInventory: req.CurrentInventory,
		StockThreshold:   req.StockThreshold,
		Schedule:         req.Schedule,
		PharmacyName:     req.PharmacyName,
		PharmacyMapURL:   req.PharmacyMapURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.meds.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	return m, nil
}

func (s *service) Get(ctx context.Context, userID, medicationID string) (*domain.Medication, error) {
	return s.meds.Get(ctx, userID, medicationID)
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Medication, error) {
	return s.meds.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID, medicationID string, req domain.UpdateMedicationRequest) (*domain.Medication, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DoseQuantity != nil {
		updates["dose_quantity"] = *req.DoseQuantity
	}
	if req.CurrentInventory != nil {
		updates["current_inventory"] = *req.CurrentInventory
	}
	if req.StockThreshold != nil {
		updates["stock_threshold"] = *req.StockThreshold
	}
	if req.Schedule != nil {
		updates["schedule"] = *req.Schedule
	}
	if req.PharmacyName != nil {
		updates["pharmacy_name"] = *req.PharmacyName
	}
	if req.PharmacyMapURL != nil {
		updates["pharmacy_map_url"] = *req.PharmacyMapURL
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	updates["updated_at"] = s.now().UTC().Format(time.RFC3339Nano)

	if err := s.meds.Update(ctx, userID, medicationID, updates); err != nil {
		return nil, err
	}
	return s.meds.Get(ctx, userID, medicationID)
}

func (s *service) Delete(ctx context.Context, userID, medicationID string) error {
	if _, err := s.meds.Get(ctx, userID, medicationID); err != nil {
		return err
	}
	return s.meds.Delete(ctx, userID, medicationID)
}
