package viewer

import (
	"encoding/json"
	"net/http"

	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// Handler exposes the session timezone endpoint.
type Handler struct {
	store  *SessionStore
	logger *logging.Logger
}

// NewHandler creates a viewer session handler.
func NewHandler(store *SessionStore, logger *logging.Logger) *Handler {
	if store == nil {
		panic("viewer: session store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

type setTimezoneRequest struct {
	SessionID string `json:"session_id"`
	Timezone  string `json:"timezone"`
}

// SetTimezone records the browser-detected zone for a session.
// POST /api/session/timezone
func (h *Handler) SetTimezone(w http.ResponseWriter, r *http.Request) {
	var req setTimezoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Timezone == "" {
		http.Error(w, `{"error": "session_id and timezone required"}`, http.StatusBadRequest)
		return
	}

	if err := h.store.SetTimezone(r.Context(), req.SessionID, req.Timezone); err != nil {
		h.logger.Warn("failed to store viewer timezone",
			"session_id", req.SessionID, "timezone", req.Timezone, "error", err)
		http.Error(w, `{"error": "invalid timezone"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}
