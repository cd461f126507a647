package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/harborlane/clinic-calendar/internal/calendar"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// Handler exposes clock-in/out and day listing endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates an attendance handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("attendance: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger, now: time.Now}
}

type punchRequest struct {
	OrgID          string `json:"org_id"`
	PractitionerID int64  `json:"practitioner_id"`
}

// ClockIn opens a shift for a practitioner.
// POST /api/attendance/clock-in
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.repo.ClockIn)
}

// ClockOut closes the practitioner's open shift.
// POST /api/attendance/clock-out
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.repo.ClockOut)
}

func (h *Handler) punch(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, orgID string, practitionerID int64, at time.Time) (*Shift, error)) {

	var req punchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.OrgID == "" || req.PractitionerID == 0 {
		http.Error(w, `{"error": "org_id and practitioner_id required"}`, http.StatusBadRequest)
		return
	}

	shift, err := op(r.Context(), req.OrgID, req.PractitionerID, h.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrShiftOpen):
			http.Error(w, `{"error": "shift already open"}`, http.StatusConflict)
		case errors.Is(err, ErrNoOpenShift):
			http.Error(w, `{"error": "no open shift"}`, http.StatusConflict)
		default:
			h.logger.Error("attendance punch failed",
				"org_id", req.OrgID, "practitioner_id", req.PractitionerID, "error", err)
			http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(shift); err != nil {
		h.logger.Error("failed to encode shift", "error", err)
	}
}

// ListDay returns the tenant's shifts for a calendar day.
// GET /api/attendance/status?org=...&date=YYYY-MM-DD
func (h *Handler) ListDay(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org")
	if orgID == "" {
		http.Error(w, `{"error": "org required"}`, http.StatusBadRequest)
		return
	}

	day := h.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		day = parsed
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	shifts, err := h.repo.ShiftsForDay(r.Context(), orgID, start, start.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("failed to list shifts", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if shifts == nil {
		shifts = []Shift{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"date":   calendar.DateKey(start),
		"shifts": shifts,
	}); err != nil {
		h.logger.Error("failed to encode shifts", "error", err)
	}
}
