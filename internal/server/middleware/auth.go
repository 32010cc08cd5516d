package middleware

import (
	"context"
	"net/http"

	"github.com/bigdeal/bigdeal/internal/service"
)

type contextKeyAuth string

// AuthPrincipalKey is the context key for the authenticated admin identity.
const AuthPrincipalKey contextKeyAuth = "auth_principal"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "admin_token"

// Authenticate returns an HTTP middleware that validates the session cookie
// and attaches the admin identity to the request context. A missing,
// malformed, expired, or tampered cookie yields the same 401 response; the
// distinction is not exposed to the client.
func Authenticate(sessions *service.SessionTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeAuthError(w)
				return
			}

			principal, err := sessions.Verify(cookie.Value)
			if err != nil {
				writeAuthError(w)
				return
			}

			ctx := context.WithValue(r.Context(), AuthPrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated admin identity from the context.
// Returns nil for unauthenticated requests.
func GetPrincipal(ctx context.Context) *service.SessionPrincipal {
	if p, ok := ctx.Value(AuthPrincipalKey).(*service.SessionPrincipal); ok {
		return p
	}
	return nil
}

func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	// Manually construct JSON to avoid import cycle with handler package
	w.Write([]byte(`{"error":{"code":401,"message":"Unauthorized"}}`))
}
