package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/ayush/movie-collection/backend/internal/auth"
	"github.com/ayush/movie-collection/backend/internal/models"
	"github.com/ayush/movie-collection/backend/internal/response"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth is the authentication stage of the access gate. It validates
// the bearer token and injects its claims into the request context. The
// store is never consulted; the token alone establishes identity.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Fail(w, http.StatusUnauthorized, "Not Authorized & No Token")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole is the role stage of the access gate and must run after
// RequireAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.FromContext(r.Context())
			if !ok {
				response.Fail(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				response.Fail(w, http.StatusForbidden, "You don't have access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
