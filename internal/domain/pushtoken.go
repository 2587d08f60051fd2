package domain

import "time"

// Permission mirrors the OS/browser notification permission state as the
// client observes and reports it.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// PushToken is a per-user singleton delivery token. Presence implies a
// previously successful registration with the push gateway; the reconciler
// deletes it whenever permission or preferences stop justifying it.
type PushToken struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Token     string    `json:"token" dynamodbav:"token"`
	Handle    string    `json:"handle" dynamodbav:"handle"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
