package clinic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/harborlane/clinic-calendar/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *Store) {
	t.Helper()
	store := newTestStore(t)
	h := NewHandler(store, nil, NewPrefiller(nil), logging.Default())
	return h, store
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Mount("/admin/clinics", h.Routes())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetConfigReturnsDefault(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/clinics/org-1/config", nil)
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var cfg Config
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.OrgID != "org-1" || cfg.Timezone != "America/New_York" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestUpdateConfigPartial(t *testing.T) {
	h, store := newTestHandler(t)

	body := `{"name": "Harbor Lane", "timezone": "America/Denver"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/clinics/org-1/config", strings.NewReader(body))
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	got, err := store.Get(req.Context(), "org-1")
	if err != nil {
		t.Fatalf("store Get failed: %v", err)
	}
	if got.Name != "Harbor Lane" {
		t.Errorf("Name = %s", got.Name)
	}
	if got.Timezone != "America/Denver" {
		t.Errorf("Timezone = %s", got.Timezone)
	}
	// Untouched fields keep their defaults.
	if got.Hours.Monday == nil {
		t.Error("business hours lost in partial update")
	}
}

func TestUpdateConfigRejectsUnknownTimezone(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"timezone": "Mars/OlympusMons"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/clinics/org-1/config", strings.NewReader(body))
	rec := serve(h, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateConfigRejectsBadJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/admin/clinics/org-1/config", strings.NewReader("{nope"))
	rec := serve(h, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAppearanceRoundTripViaHTTP(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"theme_color": "#111827", "hero_title": "Book today", "show_practitioners": false}`
	req := httptest.NewRequest(http.MethodPut, "/admin/clinics/org-9/appearance", strings.NewReader(body))
	if rec := serve(h, req); rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/clinics/org-9/appearance", nil)
	rec := serve(h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var a Appearance
	if err := json.NewDecoder(rec.Body).Decode(&a); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if a.OrgID != "org-9" || a.ThemeColor != "#111827" || a.ShowPractitioners {
		t.Errorf("appearance = %+v", a)
	}
}

func TestPrefillRequiresWebsiteURL(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/clinics/org-1/appearance/prefill", nil)
	rec := serve(h, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadLogoUnconfigured(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/clinics/org-1/logo", strings.NewReader("png"))
	req.Header.Set("Content-Type", "image/png")
	rec := serve(h, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestUploadLogoWritesAppearance(t *testing.T) {
	store := newTestStore(t)
	h := NewHandler(store, NewAssetStore(&fakeS3{}, "branding-bucket"), nil, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/admin/clinics/org-1/logo", strings.NewReader("png"))
	req.Header.Set("Content-Type", "image/png")
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	a, err := store.GetAppearance(req.Context(), "org-1")
	if err != nil {
		t.Fatalf("GetAppearance failed: %v", err)
	}
	if !strings.HasPrefix(a.LogoURL, "https://branding-bucket.s3.amazonaws.com/branding/org-1/logo-") {
		t.Errorf("LogoURL = %s", a.LogoURL)
	}
}

type recordingNotifier struct {
	changed []string
}

func (n *recordingNotifier) SettingsChanged(orgID string) {
	n.changed = append(n.changed, orgID)
}

func TestUpdateConfigNotifiesChange(t *testing.T) {
	h, _ := newTestHandler(t)
	notifier := &recordingNotifier{}
	h.SetNotifier(notifier)

	body := `{"name": "Harbor Lane"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/clinics/org-7/config", strings.NewReader(body))
	if rec := serve(h, req); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if len(notifier.changed) != 1 || notifier.changed[0] != "org-7" {
		t.Errorf("notifications = %v", notifier.changed)
	}
}

func TestUploadLogoRejectsContentType(t *testing.T) {
	store := newTestStore(t)
	h := NewHandler(store, NewAssetStore(&fakeS3{}, "branding-bucket"), nil, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/admin/clinics/org-1/logo", strings.NewReader("exe"))
	req.Header.Set("Content-Type", "application/octet-stream")
	rec := serve(h, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}
