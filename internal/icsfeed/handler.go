package icsfeed

import (
	"context"
	"net/http"
	"time"

	"github.com/harborlane/clinic-calendar/internal/calendar"
	"github.com/harborlane/clinic-calendar/internal/clinic"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// SnapshotLoader loads the appointments covering a navigation window.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, orgID string, nav calendar.Navigator) ([]calendar.Appointment, error)
}

// SettingsStore resolves a tenant's configured timezone.
type SettingsStore interface {
	Get(ctx context.Context, orgID string) (*clinic.Config, error)
}

// Handler serves the tenant's ICS feed.
type Handler struct {
	snapshots SnapshotLoader
	settings  SettingsStore
	logger    *logging.Logger
	now       func() time.Time
}

// NewHandler creates an ICS feed handler.
func NewHandler(snapshots SnapshotLoader, settings SettingsStore, logger *logging.Logger) *Handler {
	if snapshots == nil {
		panic("icsfeed: snapshot loader required")
	}
	if settings == nil {
		panic("icsfeed: settings store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{snapshots: snapshots, settings: settings, logger: logger, now: time.Now}
}

// Serve renders the month around the requested date as an ICS feed.
// GET /api/calendar/feed.ics?org=...&date=YYYY-MM-DD
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org")
	if orgID == "" {
		http.Error(w, "org required", http.StatusBadRequest)
		return
	}

	ref := h.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		ref = parsed
	}

	cfg, err := h.settings.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to load clinic settings", "org_id", orgID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	nav := *calendar.NewNavigator(ref, calendar.ModeMonth)
	appts, err := h.snapshots.Snapshot(r.Context(), orgID, nav)
	if err != nil {
		h.logger.Error("failed to load appointment snapshot", "org_id", orgID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	cal, err := Build(appts, cfg.Location(), h.now())
	if err != nil {
		h.logger.Error("failed to build ics feed", "org_id", orgID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		h.logger.Error("failed to write ics feed", "org_id", orgID, "error", err)
	}
}
