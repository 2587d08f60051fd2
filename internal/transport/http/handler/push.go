package handler

import (
	"encoding/json"
	"net/http"

	"github.com/medimate-api/internal/application/push"
	"github.com/medimate-api/internal/domain"
	"github.com/medimate-api/internal/transport/http/middleware"
)

// PushHandler handles push-status reconciliation, explicit registration, and
// notification preferences.
type PushHandler struct {
	svc push.Service
}

func NewPushHandler(svc push.Service) *PushHandler {
	return &PushHandler{svc: svc}
}

// updatePreferencesRequest carries a preference patch plus the client's
// observed permission state so the write can reconcile immediately.
type updatePreferencesRequest struct {
	domain.UpdatePreferenceRequest
	Permission domain.Permission `json:"permission"`
	Handle     string            `json:"handle"`
}

func (h *PushHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var obs push.Observed
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.CheckStatus(r.Context(), claims.UserID, obs)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPushEnvelope(res))
}

func (h *PushHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var obs push.Observed
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.Register(r.Context(), claims.UserID, obs)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPushEnvelope(res))
}

func (h *PushHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.GetPreferences(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PreferencesEnvelope{Preferences: p})
}

func (h *PushHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req updatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	obs := push.Observed{Permission: req.Permission, Handle: req.Handle}
	if obs.Permission == "" {
		obs.Permission = domain.PermissionDefault
	}
	p, res, err := h.svc.UpdatePreferences(r.Context(), claims.UserID, req.UpdatePreferenceRequest, obs)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PreferencesEnvelope{Preferences: p, NeedsPrompt: res.NeedsPrompt})
}

func toPushEnvelope(res *push.Result) PushStatusEnvelope {
	return PushStatusEnvelope{
		NeedsPrompt:  res.NeedsPrompt,
		TokenPresent: res.TokenPresent,
		Token:        res.Token,
		Guidance:     res.Guidance,
	}
}
