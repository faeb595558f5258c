package http

import (
	"context"
	"net/http"

	"github.com/craftkart/order-service-go/internal/auth"
)

type ctxKey string

const claimsKey ctxKey = "auth_claims"

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved claims in the request context.
func RequireAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.FromAuthorizationHeader(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r.WithContext(withClaims(r.Context(), claims)))
	}
}

// RequireAdmin is RequireAuth plus an admin role check.
func RequireAdmin(secret string, next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(secret, func(w http.ResponseWriter, r *http.Request) {
		if c := ClaimsFrom(r.Context()); c == nil || !c.IsAdmin() {
			writeError(w, http.StatusUnauthorized, "admin access required")
			return
		}
		next(w, r)
	})
}

// OptionalAuth stores claims when a valid token is present and passes the
// request through either way. Verification callbacks use it: the payment is
// settled even for an anonymous caller, only the cart clear needs identity.
func OptionalAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := auth.FromAuthorizationHeader(r.Header.Get("Authorization")); token != "" {
			if claims, err := auth.ParseToken(secret, token); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next(w, r)
	}
}

func withClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFrom(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return c
	}
	return nil
}
