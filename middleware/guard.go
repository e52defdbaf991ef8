package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	ticketauth "github.com/tunatran99/ticketauth"
	"github.com/tunatran99/ticketauth/token"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the verified access claims placed in the request
// context by [Authenticate].
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims, ok
}

// Authenticate verifies the bearer access token on each request. On success
// the verified claims and the principal ID are injected into the request
// context; on any failure the request is rejected with 401 and the reason is
// never surfaced to the client.
func Authenticate(engine *ticketauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := engine.VerifyAccess(raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			ctx = ticketauth.WithPrincipalID(ctx, claims.PrincipalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles admits the request only when the authenticated principal
// holds every named role. Must be placed after [Authenticate].
func RequireRoles(engine *ticketauth.Engine, roles ...string) func(http.Handler) http.Handler {
	return requireGuard(engine, ticketauth.Requirement{Roles: roles})
}

// RequirePermissions admits the request only when the authenticated
// principal holds every named permission. Must be placed after
// [Authenticate].
func RequirePermissions(engine *ticketauth.Engine, permissions ...string) func(http.Handler) http.Handler {
	return requireGuard(engine, ticketauth.Requirement{Permissions: permissions})
}

func requireGuard(engine *ticketauth.Engine, requirement ticketauth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			principalID, ok := ticketauth.PrincipalIDFromContext(r.Context())
			if !ok || principalID == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			err := engine.Authorize(r.Context(), principalID, requirement)
			if err != nil {
				if errors.Is(err, ticketauth.ErrPermissionDenied) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	raw := value[len(bearer):]
	if raw == "" {
		return "", false
	}

	return raw, true
}
