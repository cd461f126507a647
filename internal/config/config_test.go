package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DefaultTimezone != "America/New_York" {
		t.Errorf("DefaultTimezone = %q, want America/New_York", cfg.DefaultTimezone)
	}
	if cfg.ViewerTimezoneTTL != 12*time.Hour {
		t.Errorf("ViewerTimezoneTTL = %v, want 12h", cfg.ViewerTimezoneTTL)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
	if cfg.EmailProvider != "stub" {
		t.Errorf("EmailProvider = %q, want stub", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_TIMEZONE", "America/Chicago")
	t.Setenv("USE_MEMORY_QUEUE", "true")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("VIEWER_TIMEZONE_TTL", "24h")
	t.Setenv("REDIS_TLS", "1")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DefaultTimezone != "America/Chicago" {
		t.Errorf("DefaultTimezone = %q, want America/Chicago", cfg.DefaultTimezone)
	}
	if !cfg.UseMemoryQueue {
		t.Error("UseMemoryQueue should be true")
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want 8", cfg.WorkerCount)
	}
	if cfg.ViewerTimezoneTTL != 24*time.Hour {
		t.Errorf("ViewerTimezoneTTL = %v, want 24h", cfg.ViewerTimezoneTTL)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS should be true")
	}
}

func TestInvalidNumericFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("VIEWER_TIMEZONE_TTL", "soon")

	cfg := Load()

	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want default 2", cfg.WorkerCount)
	}
	if cfg.ViewerTimezoneTTL != 12*time.Hour {
		t.Errorf("ViewerTimezoneTTL = %v, want default 12h", cfg.ViewerTimezoneTTL)
	}
}
