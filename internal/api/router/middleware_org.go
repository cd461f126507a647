package router

import (
	"net/http"
	"strings"

	"github.com/harborlane/clinic-calendar/internal/tenancy"
)

const orgHeader = "X-Org-Id"

// requireOrgID enforces multi-tenancy on API requests. The org may
// arrive as an X-Org-Id header or an org query parameter; either way
// it lands in the request context for downstream handlers.
func requireOrgID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := strings.TrimSpace(r.Header.Get(orgHeader))
		if orgID == "" {
			orgID = strings.TrimSpace(r.URL.Query().Get("org"))
		}
		if orgID == "" {
			http.Error(w, "missing X-Org-Id", http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithOrgID(r.Context(), orgID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
