package middleware

import (
	"net/http"
	"strings"
)

// Headers the portal and admin clients send with calendar requests.
const (
	corsAllowedHeaders = "Authorization, Content-Type, X-Org-Id"
	corsAllowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsExposedHeaders = "X-Request-Id"
)

// originSet matches request origins against the configured allowlist.
// Entries are exact origins, "*" for any, or "*.domain" to admit every
// subdomain of a clinic's custom domain.
type originSet struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string
}

func newOriginSet(allowedOrigins []string) *originSet {
	s := &originSet{exact: map[string]struct{}{}}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "":
		case origin == "*":
			s.any = true
		case strings.HasPrefix(origin, "*."):
			s.suffixes = append(s.suffixes, origin[1:])
		default:
			s.exact[origin] = struct{}{}
		}
	}
	return s
}

func (s *originSet) match(origin string) bool {
	if s.any {
		return true
	}
	if _, ok := s.exact[origin]; ok {
		return true
	}
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// CORS admits cross-origin requests from the configured portal
// origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allow := newOriginSet(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" && allow.match(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
				w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
				w.Header().Set("Access-Control-Expose-Headers", corsExposedHeaders)
				w.Header().Set("Access-Control-Max-Age", "600")
			}

			// Preflight requests stop here.
			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
