package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// RequestLogger emits one structured log line per request, carrying
// the tenant when the caller identified one.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := chimiddleware.GetReqID(r.Context())
			if reqID == "" {
				reqID = uuid.NewString()
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if org := orgFromRequest(r); org != "" {
				fields = append(fields, "org_id", org)
			}
			logger.Info("request completed", fields...)
		})
	}
}

func orgFromRequest(r *http.Request) string {
	if org := r.Header.Get("X-Org-Id"); org != "" {
		return org
	}
	return r.URL.Query().Get("org")
}
