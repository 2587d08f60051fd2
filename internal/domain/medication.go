package domain

import "time"

// ScheduleSlot is a time of day ("08:00") at which a dose is expected.
type ScheduleSlot struct {
	Time string `json:"time" dynamodbav:"time" validate:"required"`
}

// Medication is a per-user medication record. DoseQuantity and
// CurrentInventory are deliberately untyped: legacy records hold strings like
// "10 tablets" and are normalized on read (see pkg/numeric) instead of
// failing. Inventory is only ever mutated through the dose ledger
// transaction; direct updates via CRUD never touch the inventory math.
type Medication struct {
	MedicationID     string         `json:"id" dynamodbav:"medication_id"`
	UserID           string         `json:"user_id" dynamodbav:"user_id"`
	Name             string         `json:"name" dynamodbav:"name"`
	DoseQuantity     interface{}    `json:"dose_quantity" dynamodbav:"dose_quantity"`
	CurrentInventory interface{}    `json:"current_inventory" dynamodbav:"current_inventory"`
	StockThreshold   int            `json:"stock_threshold" dynamodbav:"stock_threshold"`
	Schedule         []ScheduleSlot `json:"schedule" dynamodbav:"schedule"`
	PharmacyName     string         `json:"pharmacy_name,omitempty" dynamodbav:"pharmacy_name"`
	PharmacyMapURL   string         `json:"pharmacy_map_url,omitempty" dynamodbav:"pharmacy_map_url"`
	CreatedAt        time.Time      `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time      `json:"updated" dynamodbav:"updated_at"`
}

type CreateMedicationRequest struct {
	Name             string         `json:"name" validate:"required"`
	DoseQuantity     int            `json:"dose_quantity" validate:"required,gt=0"`
	CurrentInventory int            `json:"current_inventory" validate:"gte=0"`
	StockThreshold   int            `json:"stock_threshold" validate:"gte=0"`
	Schedule         []ScheduleSlot `json:"schedule" validate:"dive"`
	PharmacyName     string         `json:"pharmacy_name"`
	PharmacyMapURL   string         `json:"pharmacy_map_url"`
}

type UpdateMedicationRequest struct {
	Name             *string         `json:"name"`
	DoseQuantity     *int            `json:"dose_quantity"`
	CurrentInventory *int            `json:"current_inventory"`
	StockThreshold   *int            `json:"stock_threshold"`
	Schedule         *[]ScheduleSlot `json:"schedule"`
	PharmacyName     *string         `json:"pharmacy_name"`
	PharmacyMapURL   *string         `json:"pharmacy_map_url"`
}
