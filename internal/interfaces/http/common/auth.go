package common

import "context"

type contextKey string

const adminPrincipalContextKey contextKey = "adminPrincipal"

// AdminPrincipal identifies who passed the admin gate.
type AdminPrincipal struct {
	Subject string `json:"subject"`
	// Method is "static-token" or "jwt".
	Method string `json:"method"`
}

// ContextWithAdmin stores the admin principal into context.
func ContextWithAdmin(ctx context.Context, principal AdminPrincipal) context.Context {
	return context.WithValue(ctx, adminPrincipalContextKey, principal)
}

// AdminFromContext extracts the admin principal from context.
func AdminFromContext(ctx context.Context) (AdminPrincipal, bool) {
	principal, ok := ctx.Value(adminPrincipalContextKey).(AdminPrincipal)
	return principal, ok
}
