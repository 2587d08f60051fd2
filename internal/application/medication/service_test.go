package medication

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medimate-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, med *domain.Medication) error {
	return m.Called(ctx, med).Error(0)
}
func (m *mockStore) Get(ctx context.Context, userID, medicationID string) (*domain.Medication, error) {
	args := m.Called(ctx, userID, medicationID)
	if med, _ := args.Get(0).(*domain.Medication); med != nil {
		return med, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListByUser(ctx context.Context, userID string) ([]domain.Medication, error) {
	args := m.Called(ctx, userID)
	if meds, _ := args.Get(0).([]domain.Medication); meds != nil {
		return meds, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Update(ctx context.Context, userID, medicationID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, medicationID, updates).Error(0)
}
func (m *mockStore) Delete(ctx context.Context, userID, medicationID string) error {
	return m.Called(ctx, userID, medicationID).Error(0)
}

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newSvc(st *mockStore) *service {
	return &service{meds: st, now: func() time.Time { return testNow }}
}

func TestCreate_StampsIDAndTimestamps(t *testing.T) {
	st := &mockStore{}
	st.On("Put", mock.Anything, mock.AnythingOfType("*domain.Medication")).Return(nil)

	m, err := newSvc(st).Create(context.Background(), "u1", domain.CreateMedicationRequest{
		Name:             "Metformin",
		DoseQuantity:     10,
		CurrentInventory: 60,
		StockThreshold:   15,
		Schedule:         []domain.ScheduleSlot{{Time: "08:00"}, {Time: "20:00"}},
		PharmacyName:     "Central Pharmacy",
		PharmacyMapURL:   "https://maps.example.com/central",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, m.MedicationID)
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, testNow, m.CreatedAt)
	assert.Equal(t, testNow, m.UpdatedAt)
	assert.Len(t, m.Schedule, 2)
}

func TestCreate_MissingName_Rejected(t *testing.T) {
	st := &mockStore{}

	_, err := newSvc(st).Create(context.Background(), "u1", domain.CreateMedicationRequest{
		DoseQuantity: 10,
	})

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_ZeroDose_Rejected(t *testing.T) {
	st := &mockStore{}

	_, err := newSvc(st).Create(context.Background(), "u1", domain.CreateMedicationRequest{
		Name: "Metformin",
	})

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	st := &mockStore{}
	name := "Metformin XR"
	threshold := 20

	st.On("Update", mock.Anything, "u1", "med-1", mock.Anything).Return(nil)
	st.On("Get", mock.Anything, "u1", "med-1").
		Return(&domain.Medication{MedicationID: "med-1", Name: name}, nil)

	m, err := newSvc(st).Update(context.Background(), "u1", "med-1",
		domain.UpdateMedicationRequest{Name: &name, StockThreshold: &threshold})

	require.NoError(t, err)
	assert.Equal(t, name, m.Name)

	updates := st.Calls[0].Arguments.Get(3).(map[string]interface{})
	assert.Equal(t, name, updates["name"])
	assert.Equal(t, threshold, updates["stock_threshold"])
	assert.Contains(t, updates, "updated_at")
	assert.NotContains(t, updates, "dose_quantity")
	assert.NotContains(t, updates, "current_inventory")
}

func TestUpdate_EmptyPatch_Rejected(t *testing.T) {
	st := &mockStore{}

	_, err := newSvc(st).Update(context.Background(), "u1", "med-1",
		domain.UpdateMedicationRequest{})

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	st.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_UnknownMedication(t *testing.T) {
	st := &mockStore{}
	name := "x"
	st.On("Update", mock.Anything, "u1", "nope", mock.Anything).Return(domain.ErrNotFound)

	_, err := newSvc(st).Update(context.Background(), "u1", "nope",
		domain.UpdateMedicationRequest{Name: &name})

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_RequiresExistingRecord(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "u1", "nope").Return(nil, domain.ErrNotFound)

	err := newSvc(st).Delete(context.Background(), "u1", "nope")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	st.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_Existing(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "u1", "med-1").Return(&domain.Medication{MedicationID: "med-1"}, nil)
	st.On("Delete", mock.Anything, "u1", "med-1").Return(nil)

	require.NoError(t, newSvc(st).Delete(context.Background(), "u1", "med-1"))
}
