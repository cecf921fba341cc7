package tenant

import (
	"context"
	"strings"
)

type contextKey string

const tenantContextKey contextKey = "tenant.id"

// WithTenant stores the tenant identifier inside the context.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, tenantContextKey, tenantID)
}

// FromContext extracts the tenant identifier from the context if available.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	tenantID, ok := ctx.Value(tenantContextKey).(string)
	if !ok {
		return "", false
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", false
	}
	return tenantID, true
}

// PrefixKey creates a namespaced cache key per tenant slug or id.
func PrefixKey(tenantSlugOrID, key string) string {
	if tenantSlugOrID == "" {
		return key
	}
	return tenantSlugOrID + ":" + key
}

// Key namespaces key with the tenant carried by ctx, if any.
func Key(ctx context.Context, key string) string {
	id, _ := FromContext(ctx)
	return PrefixKey(id, key)
}
