package push

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/medimate-api/internal/domain"
	"github.com/medimate-api/internal/pkg/validate"
)

// Observed is the client-reported permission state accompanying every
// reconciliation trigger (page load, permission change, preference change).
// Handle is the background agent's registration handle, when the client has
// one; it is required only when a token actually needs to be minted.
type Observed struct {
	Permission domain.Permission `json:"permission" validate:"required,oneof=default granted denied"`
	Handle     string            `json:"handle"`
}

// Result is the outcome of a reconciliation pass. NeedsPrompt replaces the
// original's process-wide flag: every caller gets the current value back
// instead of watching shared mutable state.
type Result struct {
	NeedsPrompt  bool   `json:"needs_prompt"`
	TokenPresent bool   `json:"token_present"`
	Token        string `json:"token,omitempty"`
	Guidance     string `json:"guidance,omitempty"`
}

type Service interface {
	// CheckStatus runs one reconciliation pass: it brings token presence into
	// agreement with tokenPresent ⇔ (granted AND preference enabled).
	CheckStatus(ctx context.Context, userID string, obs Observed) (*Result, error)
	// Register acts on the outcome of an explicit permission request.
	Register(ctx context.Context, userID string, obs Observed) (*Result, error)
	GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreference, error)
	// UpdatePreferences persists the new flags and immediately reconciles.
	UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferenceRequest, obs Observed) (*domain.NotificationPreference, *Result, error)
}

type tokenStore interface {
	Get(ctx context.Context, userID string) (*domain.PushToken, error)
	Put(ctx context.Context, tok *domain.PushToken) error
	Delete(ctx context.Context, userID string) error
}

type preferenceStore interface {
	Get(ctx context.Context, userID string) (*domain.NotificationPreference, error)
	Put(ctx context.Context, p *domain.NotificationPreference) error
}

type registrar interface {
	Register(ctx context.Context, handle string) (string, error)
}

type service struct {
	tokens    tokenStore
	prefs     preferenceStore
	registrar registrar
	now       func() time.Time
}

func NewService(tokens tokenStore, prefs preferenceStore, reg registrar) Service {
	return &service{tokens: tokens, prefs: prefs, registrar: reg, now: time.Now}
}

// action is what one reconciliation pass decided to do.
type action int

const (
	actionNone action = iota
	actionDropToken       // delete token, user opted out; no prompt
	actionDropTokenPrompt // delete token, permission denied; offer re-request
	actionRegister        // granted and wanted but no token: mint silently
	actionPrompt          // not granted yet: offer the permission prompt
)

// decide maps the observed (permission, tokenPresent, preferenceEnabled)
// triple to an action. Every trigger funnels through this one function so the
// three async entry points cannot diverge.
func decide(perm domain.Permission, tokenPresent, prefEnabled bool) action {
	switch {
	case perm == domain.PermissionDenied && tokenPresent:
		return actionDropTokenPrompt
	case !prefEnabled:
		if tokenPresent {
			return actionDropToken
		}
		return actionNone
	case perm == domain.PermissionGranted && !tokenPresent:
		return actionRegister
	case perm != domain.PermissionGranted:
		return actionPrompt
	default:
		return actionNone
	}
}

func (s *service) CheckStatus(ctx context.Context, userID string, obs Observed) (*Result, error) {
	if err := validate.Struct(obs); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	tokenPresent, err := s.tokenPresent(ctx, userID)
	if err != nil {
		// Degrade instead of failing the pass: report no token and ask the
		// client to prompt again; the next trigger converges.
		log.Printf("push: token read for %s failed: %v", userID, err)
		return &Result{NeedsPrompt: true}, nil
	}
	pref := s.loadPreferences(ctx, userID)

	switch decide(obs.Permission, tokenPresent, pref.Enabled()) {
	case actionDropTokenPrompt:
		s.dropToken(ctx, userID)
		return &Result{NeedsPrompt: true}, nil
	case actionDropToken:
		s.dropToken(ctx, userID)
		return &Result{}, nil
	case actionRegister:
		tok, err := s.mint(ctx, userID, obs.Handle)
		if err != nil {
			log.Printf("push: silent registration for %s failed: %v", userID, err)
			return &Result{NeedsPrompt: true}, nil
		}
		return &Result{TokenPresent: true, Token: tok}, nil
	case actionPrompt:
		return &Result{NeedsPrompt: true, TokenPresent: tokenPresent}, nil
	default:
		return &Result{TokenPresent: tokenPresent}, nil
	}
}

func (s *service) Register(ctx context.Context, userID string, obs Observed) (*Result, error) {
	if err := validate.Struct(obs); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	switch obs.Permission {
	case domain.PermissionDenied:
		// Terminal user decision, not an error. Drop any stale token and
		// explain that re-enabling happens outside the app.
		s.dropToken(ctx, userID)
		return &Result{
			NeedsPrompt: true,
			Guidance:    "Notifications are blocked at the browser level. Re-enable them in site settings, then reload.",
		}, nil
	case domain.PermissionGranted:
		tok, err := s.mint(ctx, userID, obs.Handle)
		if err != nil {
			return nil, err
		}
		return &Result{TokenPresent: true, Token: tok}, nil
	default:
		// Prompt dismissed: no token, no side effects.
		return &Result{}, nil
	}
}

func (s *service) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	p, err := s.prefs.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.NotificationPreference{UserID: userID}, nil
	}
	return p, err
}

func (s *service) UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferenceRequest, obs Observed) (*domain.NotificationPreference, *Result, error) {
	p, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if req.EnableNotifications != nil {
		p.EnableNotifications = req.EnableNotifications
	}
	if req.EnableStockAlerts != nil {
		p.EnableStockAlerts = *req.EnableStockAlerts
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.prefs.Put(ctx, p); err != nil {
		return nil, nil, err
	}

	res, err := s.CheckStatus(ctx, userID, obs)
	if err != nil {
		return nil, nil, err
	}
	return p, res, nil
}

// mint obtains a fresh delivery token and persists it, overwriting any prior
// record.
func (s *service) mint(ctx context.Context, userID, handle string) (string, error) {
	if s.registrar == nil {
		return "", domain.ErrRegistrationUnavailable
	}
	tok, err := s.registrar.Register(ctx, handle)
	if err != nil {
		return "", err
	}
	now := s.now().UTC()
	rec := &domain.PushToken{
		UserID:    userID,
		Token:     tok,
		Handle:    handle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tokens.Put(ctx, rec); err != nil {
		return "", fmt.Errorf("persist push token: %w", err)
	}
	return tok, nil
}

func (s *service) tokenPresent(ctx context.Context, userID string) (bool, error) {
	_, err := s.tokens.Get(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// dropToken deletes the record; failures are logged, the next pass retries.
func (s *service) dropToken(ctx context.Context, userID string) {
	if err := s.tokens.Delete(ctx, userID); err != nil {
		log.Printf("push: token delete for %s failed: %v", userID, err)
	}
}

// loadPreferences returns nil when no record exists or the read fails; nil
// carries the default semantics (notifications enabled).
func (s *service) loadPreferences(ctx context.Context, userID string) *domain.NotificationPreference {
	p, err := s.prefs.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("push: preference read for %s failed: %v", userID, err)
		}
		return nil
	}
	return p
}
