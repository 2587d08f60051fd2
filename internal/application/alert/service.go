package alert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/medimate-api/internal/domain"
	"github.com/medimate-api/internal/pkg/id"
	"github.com/medimate-api/internal/pkg/numeric"
)

// Service evaluates a medication's inventory against its stock threshold and,
// when depleted, records an in-app alert and pushes one to the user's device.
type Service interface {
	CheckStock(ctx context.Context, userID, medicationID string) error
}

type medicationStore interface {
	Get(ctx context.Context, userID, medicationID string) (*domain.Medication, error)
}

type preferenceStore interface {
	Get(ctx context.Context, userID string) (*domain.NotificationPreference, error)
}

type tokenStore interface {
	Get(ctx context.Context, userID string) (*domain.PushToken, error)
}

type feed interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type publisher interface {
	Publish(ctx context.Context, token string, payload domain.PushPayload) error
}

type service struct {
	meds   medicationStore
	prefs  preferenceStore
	tokens tokenStore
	feed   feed
	pub    publisher
	now    func() time.Time
}

func NewService(meds medicationStore, prefs preferenceStore, tokens tokenStore, feed feed, pub publisher) Service {
	return &service{meds: meds, prefs: prefs, tokens: tokens, feed: feed, pub: pub, now: time.Now}
}

func (s *service) CheckStock(ctx context.Context, userID, medicationID string) error {
	med, err := s.meds.Get(ctx, userID, medicationID)
	if err != nil {
		return err
	}
	inventory := numeric.Normalize(med.CurrentInventory)
	if med.StockThreshold <= 0 || inventory > med.StockThreshold {
		return nil
	}

	pref, err := s.prefs.Get(ctx, userID)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("load preferences: %w", err)
	}
	if !pref.StockAlertsEnabled() {
		return nil
	}

	n := s.buildAlert(userID, med, inventory)
	if err := s.feed.Put(ctx, n); err != nil {
		return fmt.Errorf("record stock alert: %w", err)
	}

	// Push delivery is best effort: without a token or publisher the in-app
	// record alone still surfaces the alert next time the client opens.
	if s.pub == nil {
		return nil
	}
	tok, err := s.tokens.Get(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			log.Printf("alert: token read for %s failed: %v", userID, err)
		}
		return nil
	}
	payload := domain.PushPayload{
		Notification: domain.PushNote{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	}
	if err := s.pub.Publish(ctx, tok.Token, payload); err != nil {
		log.Printf("alert: push for %s failed: %v", userID, err)
	}
	return nil
}

func (s *service) buildAlert(userID string, med *domain.Medication, inventory int) *domain.Notification {
	data := map[string]string{domain.DataKeyMedicationID: med.MedicationID}
	body := fmt.Sprintf("%s is running low: %d left (alert at %d).",
		med.Name, inventory, med.StockThreshold)
	if med.PharmacyName != "" {
		body = fmt.Sprintf("%s Restock at %s.", body, med.PharmacyName)
		data[domain.DataKeyPharmacyName] = med.PharmacyName
	}
	if med.PharmacyMapURL != "" {
		data[domain.DataKeyMapURL] = med.PharmacyMapURL
	}
	return &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Kind:           domain.NotificationKindStockAlert,
		Title:          "Low medication stock",
		Body:           body,
		Data:           data,
		CreatedAt:      s.now().UTC(),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
