package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"grocery-graph/internal/domain"
)

type principalKey struct{}

// WithPrincipal stores the resolved principal in the context.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the resolved principal from the context.
// Handlers pass it explicitly into every core operation; nothing below
// the HTTP layer reads request context for identity.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// Auth returns middleware that authenticates a Bearer token and resolves
// it to an active account. Locally-issued tokens carry the account id in
// sub; tokens from an external IdP are resolved by their email claim.
// Requests without a valid token for an active account get 401.
func Auth(validator TokenValidator, users domain.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "provide a Bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			user, err := resolveAccount(r.Context(), users, claims)
			if err != nil {
				logger.Debug("token resolved to no account",
					"sub", claims.Subject, "error", err)
				writeUnauthorized(w, "unknown principal")
				return
			}
			if !user.Active {
				writeUnauthorized(w, "account is deactivated")
				return
			}

			ctx := WithPrincipal(r.Context(), domain.PrincipalFromUser(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveAccount(ctx context.Context, users domain.UserRepository, claims *TokenClaims) (*domain.User, error) {
	if id, err := strconv.ParseInt(claims.Subject, 10, 64); err == nil {
		return users.GetByID(ctx, id)
	}
	return users.GetByEmail(ctx, claims.Email)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized: " + message,
	})
}
