// Package handlers wires the calendar view model to the HTTP surface.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harborlane/clinic-calendar/internal/appointments"
	"github.com/harborlane/clinic-calendar/internal/calendar"
	"github.com/harborlane/clinic-calendar/internal/clinic"
	"github.com/harborlane/clinic-calendar/internal/observability/metrics"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// AppointmentSource loads appointment snapshots and rosters.
type AppointmentSource interface {
	Snapshot(ctx context.Context, orgID string, nav calendar.Navigator) ([]calendar.Appointment, error)
	CentralSnapshot(ctx context.Context, practitionerID int64, nav calendar.Navigator) ([]calendar.Appointment, error)
	Practitioners(ctx context.Context, orgID string) ([]appointments.Practitioner, error)
}

// SettingsSource resolves a tenant's configured timezone.
type SettingsSource interface {
	Get(ctx context.Context, orgID string) (*clinic.Config, error)
}

// SessionSource resolves a viewer session's detected timezone.
type SessionSource interface {
	Timezone(ctx context.Context, sessionID string) (string, bool, error)
}

// CalendarHandler renders calendar views over HTTP.
type CalendarHandler struct {
	appts    AppointmentSource
	settings SettingsSource
	sessions SessionSource
	metrics  *metrics.CalendarMetrics
	logger   *logging.Logger

	defaultTimezone string
	now             func() time.Time
}

// NewCalendarHandler creates the calendar view handler. sessions and
// m may be nil.
func NewCalendarHandler(appts AppointmentSource, settings SettingsSource, sessions SessionSource,
	m *metrics.CalendarMetrics, defaultTimezone string, logger *logging.Logger) *CalendarHandler {
	if appts == nil {
		panic("handlers: appointment source required")
	}
	if settings == nil {
		panic("handlers: settings source required")
	}
	if defaultTimezone == "" {
		defaultTimezone = "America/New_York"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CalendarHandler{
		appts:           appts,
		settings:        settings,
		sessions:        sessions,
		metrics:         m,
		logger:          logger,
		defaultTimezone: defaultTimezone,
		now:             time.Now,
	}
}

// calendarResponse is the rendered view plus the filter criteria that
// produced it, echoed back so clients can detect stale responses.
type calendarResponse struct {
	View    calendar.View     `json:"view"`
	Applied calendar.Criteria `json:"applied_filters"`
}

// GetCalendar renders the calendar view for a tenant or, when
// practitioner_id is set, the central cross-tenant view.
// GET /api/calendar?org=...&date=YYYY-MM-DD&mode=month&clinic=...&status=...&practitioners=1,2&session=...
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orgID := q.Get("org")
	practitionerParam := q.Get("practitioner_id")
	if orgID == "" && practitionerParam == "" {
		http.Error(w, `{"error": "org or practitioner_id required"}`, http.StatusBadRequest)
		return
	}

	ref := h.now().UTC()
	if raw := q.Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		ref = parsed
	}

	mode := calendar.ViewMode(q.Get("mode"))
	nav := *calendar.NewNavigator(ref, mode)

	crit := calendar.Criteria{
		Clinic: q.Get("clinic"),
		Status: q.Get("status"),
	}
	if names, err := h.resolvePractitioners(r.Context(), orgID, q.Get("practitioners")); err != nil {
		h.logger.Error("failed to resolve practitioner filter", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	} else {
		crit.Practitioners = names
	}

	started := h.now()
	var (
		view calendar.View
		err  error
	)
	scope := "tenant"
	if practitionerParam != "" {
		scope = "central"
		view, err = h.centralView(r.Context(), practitionerParam, q.Get("session"), nav, crit)
	} else {
		view, err = h.tenantView(r.Context(), orgID, nav, crit)
	}
	if err != nil {
		h.logger.Error("calendar render failed", "org_id", orgID, "scope", scope, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveRender(string(nav.Mode), scope, h.now().Sub(started).Seconds())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(calendarResponse{View: view, Applied: crit}); err != nil {
		h.logger.Error("failed to encode calendar view", "error", err)
	}
}

func (h *CalendarHandler) tenantView(ctx context.Context, orgID string, nav calendar.Navigator, crit calendar.Criteria) (calendar.View, error) {
	cfg, err := h.settings.Get(ctx, orgID)
	if err != nil {
		return calendar.View{}, err
	}

	snapshot, err := h.appts.Snapshot(ctx, orgID, nav)
	if err != nil {
		return calendar.View{}, err
	}

	norm := calendar.NewTenantNormalizer(cfg.Location())
	return calendar.BuildView(snapshot, nav, crit, norm, h.now()), nil
}

func (h *CalendarHandler) centralView(ctx context.Context, practitionerParam, sessionID string, nav calendar.Navigator, crit calendar.Criteria) (calendar.View, error) {
	practitionerID, err := strconv.ParseInt(practitionerParam, 10, 64)
	if err != nil {
		return calendar.View{}, err
	}

	snapshot, err := h.appts.CentralSnapshot(ctx, practitionerID, nav)
	if err != nil {
		return calendar.View{}, err
	}

	norm := calendar.NewViewerNormalizer(h.viewerLocation(ctx, sessionID))
	return calendar.BuildView(snapshot, nav, crit, norm, h.now()), nil
}

// viewerLocation resolves the viewer's zone from the session store,
// degrading silently to the configured default when detection failed.
func (h *CalendarHandler) viewerLocation(ctx context.Context, sessionID string) *time.Location {
	zone := h.defaultTimezone
	if h.sessions != nil && sessionID != "" {
		stored, ok, err := h.sessions.Timezone(ctx, sessionID)
		if err != nil {
			h.logger.Warn("viewer timezone lookup failed", "session_id", sessionID, "error", err)
		} else if ok {
			zone = stored
		}
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		h.logger.Warn("unknown viewer timezone, using UTC", "timezone", zone)
		return time.UTC
	}
	return loc
}

// resolvePractitioners maps comma-separated practitioner ids from the
// filter panel to display names, which is what appointments carry.
func (h *CalendarHandler) resolvePractitioners(ctx context.Context, orgID, raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	type idToken struct {
		id  int64
		raw string
	}
	var idTokens []idToken
	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			idTokens = append(idTokens, idToken{id: id, raw: part})
		} else {
			// Accept names directly for clients that resolved them.
			names = append(names, part)
		}
	}

	resolved := make(map[int64]string)
	if len(idTokens) > 0 && orgID != "" {
		roster, err := h.appts.Practitioners(ctx, orgID)
		if err != nil {
			return nil, err
		}
		for _, p := range roster {
			resolved[p.ID] = p.Name
		}
	}

	// An id with no roster match stays in the list verbatim: selecting
	// a practitioner that does not exist must exclude appointments, not
	// drop the constraint and show everything.
	for _, tok := range idTokens {
		if name, ok := resolved[tok.id]; ok {
			names = append(names, name)
		} else {
			names = append(names, tok.raw)
		}
	}

	return names, nil
}

// GetPractitioners returns the tenant roster for the filter panel.
// GET /api/practitioners?org=...
func (h *CalendarHandler) GetPractitioners(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org")
	if orgID == "" {
		http.Error(w, `{"error": "org required"}`, http.StatusBadRequest)
		return
	}

	roster, err := h.appts.Practitioners(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list practitioners", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if roster == nil {
		roster = []appointments.Practitioner{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"practitioners": roster}); err != nil {
		h.logger.Error("failed to encode practitioners", "error", err)
	}
}
