package domain

import "time"

// Notification kinds stored in the in-app feed.
const (
	NotificationKindReminder   = "reminder"
	NotificationKindStockAlert = "stock_alert"
)

// Notification is an in-app feed record. A foregrounded client renders these
// as transient messages instead of OS popups.
type Notification struct {
	NotificationID string            `json:"id" dynamodbav:"notification_id"`
	UserID         string            `json:"user_id" dynamodbav:"user_id"`
	Kind           string            `json:"kind" dynamodbav:"kind"`
	Title          string            `json:"title" dynamodbav:"title"`
	Body           string            `json:"body" dynamodbav:"body"`
	Data           map[string]string `json:"data,omitempty" dynamodbav:"data"`
	Readed         int               `json:"readed" dynamodbav:"readed"`
	CreatedAt      time.Time         `json:"created" dynamodbav:"created_at"`
}

// PushPayload is the wire contract consumed by the client's background agent:
// an OS popup is rendered from Notification, and a click opens data["mapUrl"]
// when present or focuses the application otherwise.
type PushPayload struct {
	Notification PushNote          `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

// PushNote is the visible part of a push payload.
type PushNote struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Payload data field keys.
const (
	DataKeyMapURL       = "mapUrl"
	DataKeyPharmacyName = "pharmacyName"
	DataKeyMedicationID = "medicationId"
)
