package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client)
}

func TestStoreGetReturnsDefaultWhenMissing(t *testing.T) {
	store := newTestStore(t)

	cfg, err := store.Get(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cfg.OrgID != "org-1" {
		t.Errorf("OrgID = %s, want org-1", cfg.OrgID)
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("default timezone = %s", cfg.Timezone)
	}
	if cfg.Hours.Monday == nil || cfg.Hours.Monday.Open != "09:00" {
		t.Errorf("default Monday hours = %+v", cfg.Hours.Monday)
	}
}

func TestStoreSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	cfg := DefaultConfig("org-2")
	cfg.Name = "Harbor Lane Aesthetics"
	cfg.Timezone = "America/Chicago"
	cfg.BookingURL = "https://harborlane.example/book"

	if err := store.Set(context.Background(), cfg); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(context.Background(), "org-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Harbor Lane Aesthetics" {
		t.Errorf("Name = %s", got.Name)
	}
	if got.Timezone != "America/Chicago" {
		t.Errorf("Timezone = %s", got.Timezone)
	}
	if got.BookingURL != "https://harborlane.example/book" {
		t.Errorf("BookingURL = %s", got.BookingURL)
	}
}

func TestConfigLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	if loc := cfg.Location(); loc != time.UTC {
		t.Errorf("Location = %v, want UTC", loc)
	}
}

func TestIsOpenAt(t *testing.T) {
	cfg := DefaultConfig("org-1")
	loc, _ := time.LoadLocation("America/New_York")

	// Wednesday 10:00 local is inside 09:00-18:00.
	open := time.Date(2024, time.March, 13, 10, 0, 0, 0, loc)
	if !cfg.IsOpenAt(open) {
		t.Error("expected open on Wednesday morning")
	}

	// Sunday is closed by default.
	sunday := time.Date(2024, time.March, 10, 10, 0, 0, 0, loc)
	if cfg.IsOpenAt(sunday) {
		t.Error("expected closed on Sunday")
	}

	// Clinic with no hours at all is treated as always open.
	cfg.Hours = BusinessHours{}
	if !cfg.IsOpenAt(sunday) {
		t.Error("clinic with no hours should be always open")
	}
}

func TestAppearanceDefaultsAndRoundTrip(t *testing.T) {
	store := newTestStore(t)

	a, err := store.GetAppearance(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("GetAppearance failed: %v", err)
	}
	if a.ThemeColor != "#0f172a" || !a.ShowPractitioners {
		t.Errorf("defaults = %+v", a)
	}

	a.ThemeColor = "#312e81"
	a.HeroTitle = "Book with us"
	if err := store.SetAppearance(context.Background(), a); err != nil {
		t.Fatalf("SetAppearance failed: %v", err)
	}

	got, err := store.GetAppearance(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("GetAppearance failed: %v", err)
	}
	if got.ThemeColor != "#312e81" || got.HeroTitle != "Book with us" {
		t.Errorf("round trip = %+v", got)
	}
}
