package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
)

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
	ctxAccessID  contextKey = "access_id"
)

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (pkgAuth.Principal, bool) {
	if ctx == nil {
		return pkgAuth.Principal{}, false
	}
	principal, ok := ctx.Value(ctxPrincipal).(pkgAuth.Principal)
	if !ok || principal.UserID == uuid.Nil {
		return pkgAuth.Principal{}, false
	}
	return principal, true
}

// AccessIDFromContext returns the session access ID attached by Auth.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithPrincipal injects an authenticated principal into the context.
func WithPrincipal(ctx context.Context, principal pkgAuth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// WithAccessID injects the session access ID into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
