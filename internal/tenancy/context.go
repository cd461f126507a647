// Package tenancy carries the per-request tenant scope through context.
package tenancy

import "context"

type ctxKey string

const (
	orgKey   ctxKey = "cliniccal.org_id"
	scopeKey ctxKey = "cliniccal.view_scope"
)

// ViewScope distinguishes the cross-tenant practitioner calendar from
// a single clinic's own portal.
type ViewScope string

const (
	// ScopeCentral is the cross-tenant view; times are shown in the
	// viewer's detected timezone.
	ScopeCentral ViewScope = "central"
	// ScopeTenant is a single clinic's portal; times stay in the
	// clinic's configured timezone.
	ScopeTenant ViewScope = "tenant"
)

// WithOrgID stores the org id in context.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgKey, orgID)
}

// OrgIDFromContext extracts the org id if present.
func OrgIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(orgKey)
	if val == nil {
		return "", false
	}
	orgID, ok := val.(string)
	return orgID, ok && orgID != ""
}

// WithScope stores the view scope in context.
func WithScope(ctx context.Context, scope ViewScope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext extracts the view scope, defaulting to tenant.
func ScopeFromContext(ctx context.Context) ViewScope {
	if scope, ok := ctx.Value(scopeKey).(ViewScope); ok && scope != "" {
		return scope
	}
	return ScopeTenant
}
