package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medimate-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// PushStatusEnvelope wraps reconciliation responses: whether the client should
// surface the permission prompt and whether a delivery token is registered.
type PushStatusEnvelope struct {
	NeedsPrompt  bool   `json:"needs_prompt"`
	TokenPresent bool   `json:"token_present"`
	Token        string `json:"token,omitempty"`
	Guidance     string `json:"guidance,omitempty"`
	Error        string `json:"error,omitempty"`
}

// PreferencesEnvelope wraps a preference read/write plus the reconciliation
// outcome the write triggered.
type PreferencesEnvelope struct {
	Preferences *domain.NotificationPreference `json:"preferences"`
	NeedsPrompt bool                           `json:"needs_prompt,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientInventory):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRegistrationUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
