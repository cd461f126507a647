package clinic

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harborlane/clinic-calendar/pkg/logging"
)

const maxLogoBytes = 2 << 20 // 2 MiB

// ChangeNotifier is told when a tenant's settings change so open
// calendars can refresh.
type ChangeNotifier interface {
	SettingsChanged(orgID string)
}

// Handler provides HTTP endpoints for clinic settings management.
type Handler struct {
	store     *Store
	assets    *AssetStore
	prefiller *Prefiller
	notifier  ChangeNotifier
	logger    *logging.Logger
}

// NewHandler creates a new clinic settings HTTP handler.
func NewHandler(store *Store, assets *AssetStore, prefiller *Prefiller, logger *logging.Logger) *Handler {
	if store == nil {
		panic("clinic: store required")
	}
	if prefiller == nil {
		prefiller = NewPrefiller(nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:     store,
		assets:    assets,
		prefiller: prefiller,
		logger:    logger,
	}
}

// SetNotifier wires change notifications; nil disables them.
func (h *Handler) SetNotifier(n ChangeNotifier) {
	h.notifier = n
}

func (h *Handler) notifyChanged(orgID string) {
	if h.notifier != nil {
		h.notifier.SettingsChanged(orgID)
	}
}

// Routes returns a chi router with clinic admin routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{orgID}/config", h.GetConfig)
	r.Put("/{orgID}/config", h.UpdateConfig)
	r.Post("/{orgID}/config", h.UpdateConfig) // Allow POST as well
	r.Get("/{orgID}/appearance", h.GetAppearance)
	r.Put("/{orgID}/appearance", h.UpdateAppearance)
	r.Post("/{orgID}/appearance/prefill", h.PrefillAppearance)
	r.Post("/{orgID}/logo", h.UploadLogo)
	return r
}

// GetConfig returns the clinic configuration for an org.
// GET /admin/clinics/{orgID}/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	cfg, err := h.store.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get clinic config", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, cfg, h.logger, orgID)
}

// UpdateConfigRequest is the request body for updating clinic config.
type UpdateConfigRequest struct {
	Name       string         `json:"name,omitempty"`
	Email      string         `json:"email,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	Address    string         `json:"address,omitempty"`
	WebsiteURL string         `json:"website_url,omitempty"`
	Timezone   string         `json:"timezone,omitempty"`
	Hours      *BusinessHours `json:"business_hours,omitempty"`
	Services   []string       `json:"services,omitempty"`
	BookingURL string         `json:"booking_url,omitempty"`
}

// UpdateConfig creates or updates the clinic configuration for an org.
// PUT /admin/clinics/{orgID}/config
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	cfg, err := h.store.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get clinic config", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Partial update: only replace fields the request carries.
	if req.Name != "" {
		cfg.Name = req.Name
	}
	if req.Email != "" {
		cfg.Email = req.Email
	}
	if req.Phone != "" {
		cfg.Phone = req.Phone
	}
	if req.Address != "" {
		cfg.Address = req.Address
	}
	if req.WebsiteURL != "" {
		cfg.WebsiteURL = req.WebsiteURL
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			http.Error(w, `{"error": "unknown timezone"}`, http.StatusBadRequest)
			return
		}
		cfg.Timezone = req.Timezone
	}
	if req.Hours != nil {
		cfg.Hours = *req.Hours
	}
	if req.Services != nil {
		cfg.Services = req.Services
	}
	if req.BookingURL != "" {
		cfg.BookingURL = req.BookingURL
	}

	if err := h.store.Set(r.Context(), cfg); err != nil {
		h.logger.Error("failed to save clinic config", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "failed to save config"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("clinic config updated", "org_id", orgID, "name", cfg.Name)
	h.notifyChanged(orgID)
	writeJSON(w, cfg, h.logger, orgID)
}

// GetAppearance returns the clinic's calendar page styling.
// GET /admin/clinics/{orgID}/appearance
func (h *Handler) GetAppearance(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	a, err := h.store.GetAppearance(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get appearance", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, a, h.logger, orgID)
}

// UpdateAppearance replaces the clinic's calendar page styling.
// PUT /admin/clinics/{orgID}/appearance
func (h *Handler) UpdateAppearance(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	var a Appearance
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	a.OrgID = orgID

	if err := h.store.SetAppearance(r.Context(), &a); err != nil {
		h.logger.Error("failed to save appearance", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "failed to save appearance"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("clinic appearance updated", "org_id", orgID)
	h.notifyChanged(orgID)
	writeJSON(w, &a, h.logger, orgID)
}

// PrefillAppearance scrapes the clinic's website for styling hints.
// POST /admin/clinics/{orgID}/appearance/prefill
func (h *Handler) PrefillAppearance(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	cfg, err := h.store.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get clinic config", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if cfg.WebsiteURL == "" {
		http.Error(w, `{"error": "clinic has no website_url configured"}`, http.StatusBadRequest)
		return
	}

	result, err := h.prefiller.Prefill(r.Context(), cfg.WebsiteURL)
	if err != nil {
		h.logger.Warn("appearance prefill failed", "org_id", orgID, "url", cfg.WebsiteURL, "error", err)
		http.Error(w, `{"error": "could not fetch website"}`, http.StatusBadGateway)
		return
	}

	writeJSON(w, result, h.logger, orgID)
}

// UploadLogo stores a logo image and records its URL in the
// appearance settings.
// POST /admin/clinics/{orgID}/logo
func (h *Handler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}
	if h.assets == nil || !h.assets.Enabled() {
		http.Error(w, `{"error": "logo uploads not configured"}`, http.StatusServiceUnavailable)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/svg+xml" {
		http.Error(w, `{"error": "unsupported logo content type"}`, http.StatusUnsupportedMediaType)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxLogoBytes)
	url, err := h.assets.UploadLogo(r.Context(), orgID, contentType, body)
	if err != nil {
		h.logger.Error("logo upload failed", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "logo upload failed"}`, http.StatusInternalServerError)
		return
	}

	a, err := h.store.GetAppearance(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get appearance", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	a.LogoURL = url
	if err := h.store.SetAppearance(r.Context(), a); err != nil {
		h.logger.Error("failed to save appearance", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "failed to save appearance"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("clinic logo uploaded", "org_id", orgID, "url", url)
	h.notifyChanged(orgID)
	writeJSON(w, map[string]string{"logo_url": url}, h.logger, orgID)
}

func writeJSON(w http.ResponseWriter, v any, logger *logging.Logger, orgID string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "org_id", orgID, "error", err)
	}
}
