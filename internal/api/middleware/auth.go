package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/kapal-registry/internal/api/apierr"
	"github.com/mcoot/kapal-registry/internal/services/policy"
	"github.com/mcoot/kapal-registry/internal/services/token"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Auth creates bearer token middleware. Verified claims are stored in the
// request context; no storage lookup is made.
func Auth(codec token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := token.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMutator rejects callers whose role may not modify records.
// It must run after Auth.
func RequireMutator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := MustGetClaims(r.Context())
		if err := policy.Authorize(claims.Role); err != nil {
			apierr.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims returns the verified token claims from the request context
func GetClaims(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(token.Claims)
	return claims, ok
}

// MustGetClaims returns the verified claims or panics
func MustGetClaims(ctx context.Context) token.Claims {
	claims, ok := GetClaims(ctx)
	if !ok {
		panic("no claims in context - auth middleware not applied?")
	}
	return claims
}
