package domain

import (
	"fmt"
	"time"
)

// ActionTaken is the only dose log action. Undoing a dose deletes the entry
// rather than writing a compensating one.
const ActionTaken = "TAKEN"

// DoseLogEntry asserts a dose was taken for one medication, date and slot.
// Its storage identity is the deterministic composite key from DoseLogID, so
// "at most one entry per slot per day" holds structurally: there is no id to
// generate and no existence query to race against.
type DoseLogEntry struct {
	LogID         string    `json:"id" dynamodbav:"log_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	MedicationID  string    `json:"medication_id" dynamodbav:"medication_id"`
	ScheduledSlot string    `json:"scheduled_slot" dynamodbav:"scheduled_slot"`
	DateString    string    `json:"date" dynamodbav:"date_string"`
	Action        string    `json:"action" dynamodbav:"action"`
	TakenAt       time.Time `json:"taken_at" dynamodbav:"taken_at"`
	DosageTaken   int       `json:"dosage_taken" dynamodbav:"dosage_taken"`
}

// DoseLogID derives the entry's storage key from date, medication and slot.
func DoseLogID(date, medicationID, slot string) string {
	return fmt.Sprintf("%s_%s_%s", date, medicationID, slot)
}

// DateString formats t as the UTC calendar date used in dose log keys.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
