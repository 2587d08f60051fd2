package domain

import "time"

// NotificationPreference is a per-user singleton of boolean flags.
// EnableNotifications is a pointer so that an absent attribute defaults to
// true, matching records written before the flag existed.
type NotificationPreference struct {
	UserID              string    `json:"user_id" dynamodbav:"user_id"`
	EnableNotifications *bool     `json:"enable_notifications" dynamodbav:"enable_notifications"`
	EnableStockAlerts   bool      `json:"enable_stock_alerts" dynamodbav:"enable_stock_alerts"`
	UpdatedAt           time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Enabled reports whether any notification channel is wanted:
// enableNotifications != false OR enableStockAlerts == true.
// A nil receiver stands for a user with no stored preference record.
func (p *NotificationPreference) Enabled() bool {
	if p == nil {
		return true
	}
	return p.EnableNotifications == nil || *p.EnableNotifications || p.EnableStockAlerts
}

// StockAlertsEnabled reports whether low-stock alerts are wanted.
func (p *NotificationPreference) StockAlertsEnabled() bool {
	return p != nil && p.EnableStockAlerts
}

type UpdatePreferenceRequest struct {
	EnableNotifications *bool `json:"enable_notifications"`
	EnableStockAlerts   *bool `json:"enable_stock_alerts"`
}
