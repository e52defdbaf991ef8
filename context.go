package ticketauth

import "context"

type clientIPContextKey struct{}
type principalIDContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The engine uses it
// for per-IP login throttling and audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithPrincipalID attaches an authenticated principal id to ctx. The HTTP
// middleware sets it after access-token verification; downstream code reads
// it back with [PrincipalIDFromContext] instead of relying on any implicit
// request state.
func WithPrincipalID(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalIDContextKey{}, principalID)
}

// PrincipalIDFromContext returns the authenticated principal id, if any.
func PrincipalIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, _ := ctx.Value(principalIDContextKey{}).(string)
	if id == "" {
		return "", false
	}
	return id, true
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
