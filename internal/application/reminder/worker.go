package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/medimate-api/internal/domain"
	"github.com/medimate-api/internal/pkg/id"
)

// Worker scans medication schedules once per tick and pushes a dose reminder
// for every slot that is due and not yet logged today.
type Worker struct {
	meds     medicationScanner
	logs     logStore
	prefs    preferenceStore
	tokens   tokenStore
	feed     feed
	pub      publisher
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
}

type medicationScanner interface {
	ScanAll(ctx context.Context) ([]domain.Medication, error)
}

type logStore interface {
	Get(ctx context.Context, userID, logID string) (*domain.DoseLogEntry, error)
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

func NewWorker(meds medicationScanner, logs logStore, prefs preferenceStore,
	tokens tokenStore, feed feed, pub publisher, interval time.Duration) *Worker {
	return &Worker{
		meds:     meds,
		logs:     logs,
		prefs:    prefs,
		tokens:   tokens,
		feed:     feed,
		pub:      pub,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

func (w *Worker) Start() {
	if w.pub == nil {
		log.Println("reminder: no push publisher configured, worker disabled")
		return
	}
	log.Printf("reminder: worker started (interval %s)", w.interval)
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.tick(context.Background())
			case <-w.stopChan:
				log.Println("reminder: worker stopped")
				return
			}
		}
	}()
}

func (w *Worker) Stop() {
	close(w.stopChan)
}

// tick pushes a reminder for every due, unlogged slot. Errors on a single
// medication never stop the pass.
func (w *Worker) tick(ctx context.Context) {
	now := w.now().UTC()
	slot := now.Format("15:04")
	date := now.Format("2006-01-02")

	meds, err := w.meds.ScanAll(ctx)
	if err != nil {
		log.Printf("reminder: medication scan failed: %v", err)
		return
	}
	for i := range meds {
		med := &meds[i]
		if !scheduledAt(med, slot) {
			continue
		}
		if err := w.remind(ctx, med, date, slot, now); err != nil {
			log.Printf("reminder: %s/%s at %s: %v", med.UserID, med.MedicationID, slot, err)
		}
	}
}

func scheduledAt(med *domain.Medication, slot string) bool {
	for _, s := range med.Schedule {
		if s.Time == slot {
			return true
		}
	}
	return false
}

func (w *Worker) remind(ctx context.Context, med *domain.Medication, date, slot string, now time.Time) error {
	logID := domain.DoseLogID(date, med.MedicationID, slot)
	if _, err := w.logs.Get(ctx, med.UserID, logID); err == nil {
		return nil // already taken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("dose log lookup: %w", err)
	}

	pref, err := w.prefs.Get(ctx, med.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load preferences: %w", err)
	}
	if !pref.Enabled() {
		return nil
	}

	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         med.UserID,
		Kind:           domain.NotificationKindReminder,
		Title:          "Medication reminder",
		Body:           fmt.Sprintf("Time to take %s (%s).", med.Name, slot),
		Data:           map[string]string{domain.DataKeyMedicationID: med.MedicationID},
		CreatedAt:      now,
	}
	if err := w.feed.Put(ctx, n); err != nil {
		return fmt.Errorf("record reminder: %w", err)
	}

	tok, err := w.tokens.Get(ctx, med.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil // in-app record only
		}
		return fmt.Errorf("token lookup: %w", err)
	}
	payload := domain.PushPayload{
		Notification: domain.PushNote{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	}
	if err := w.pub.Publish(ctx, tok.Token, payload); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
