package handler

import (
	"encoding/json"
	"net/http"

	"github.com/medimate-api/internal/application/doselog"
	"github.com/medimate-api/internal/transport/http/middleware"
)

// DoseLogHandler handles dose logging, undo, and day listing.
type DoseLogHandler struct {
	svc doselog.Service
}

func NewDoseLogHandler(svc doselog.Service) *DoseLogHandler {
	return &DoseLogHandler{svc: svc}
}

func (h *DoseLogHandler) Log(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var slot doselog.Slot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := h.svc.Log(r.Context(), claims.UserID, slot)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *DoseLogHandler) Unlog(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var slot doselog.Slot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Unlog(r.Context(), claims.UserID, slot); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "dose log removed"})
}

func (h *DoseLogHandler) ListDay(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	entries, err := h.svc.ListDay(r.Context(), claims.UserID, r.URL.Query().Get("date"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
