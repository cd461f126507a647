package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harborlane/clinic-calendar/internal/attendance"
	"github.com/harborlane/clinic-calendar/internal/clinic"
	"github.com/harborlane/clinic-calendar/internal/http/handlers"
	httpmiddleware "github.com/harborlane/clinic-calendar/internal/http/middleware"
	"github.com/harborlane/clinic-calendar/internal/icsfeed"
	"github.com/harborlane/clinic-calendar/internal/invites"
	"github.com/harborlane/clinic-calendar/internal/live"
	"github.com/harborlane/clinic-calendar/internal/viewer"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	CalendarHandler    *handlers.CalendarHandler
	ClinicHandler      *clinic.Handler
	ViewerHandler      *viewer.Handler
	InvitationsHandler *invites.Handler
	AttendanceHandler  *attendance.Handler
	FeedHandler        *icsfeed.Handler
	LiveHub            *live.Hub
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Rate limit applied to the invitation endpoint; zero disables it.
	InviteRatePerSecond float64
	InviteBurst         int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics, viewer sessions)
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.ViewerHandler != nil {
			public.Post("/api/session/timezone", cfg.ViewerHandler.SetTimezone)
		}
		if cfg.LiveHub != nil {
			public.Get("/ws/calendar", cfg.LiveHub.HandleWebSocket)
		}
	})

	// Calendar views. The central scope carries practitioner_id instead
	// of an org, so the tenancy middleware stays off this route and the
	// handler validates scope itself.
	if cfg.CalendarHandler != nil {
		r.Get("/api/calendar", cfg.CalendarHandler.GetCalendar)
	}

	// Tenant-scoped API routes
	r.Group(func(tenant chi.Router) {
		tenant.Use(requireOrgID)

		if cfg.CalendarHandler != nil {
			tenant.Get("/api/practitioners", cfg.CalendarHandler.GetPractitioners)
		}
		if cfg.FeedHandler != nil {
			tenant.Get("/api/calendar/feed.ics", cfg.FeedHandler.Serve)
		}
		if cfg.InvitationsHandler != nil {
			invitations := tenant
			if cfg.InviteRatePerSecond > 0 {
				invitations = tenant.With(httpmiddleware.RateLimit(cfg.InviteRatePerSecond, cfg.InviteBurst))
			}
			invitations.Post("/api/invitations", cfg.InvitationsHandler.Create)
		}
		if cfg.AttendanceHandler != nil {
			tenant.Route("/api/attendance", func(r chi.Router) {
				r.Get("/status", cfg.AttendanceHandler.ListDay)
				r.Post("/clock-in", cfg.AttendanceHandler.ClockIn)
				r.Post("/clock-out", cfg.AttendanceHandler.ClockOut)
			})
		}
	})

	// Admin routes (protected by JWT)
	if cfg.AdminAuthSecret != "" && cfg.ClinicHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Mount("/clinics", cfg.ClinicHandler.Routes())
		})
	}

	return r
}
