package auth

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	id "comercio/pkg/domain"
	"comercio/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the account identity
// it asserts.
type TokenValidator interface {
	Validate(tokenString string) (*TokenIdentity, error)
}

// TokenIdentity is what middleware needs from a validated token.
type TokenIdentity struct {
	AccountID id.AccountID
	Email     string
	Roles     []string
}

const RoleAdmin = "admin"

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + errCode + `","error_description":"` + errDesc + `"}`))
}

// RequireAuth validates the bearer token and injects the account identity
// into the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			identity, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithAccountID(r.Context(), identity.AccountID)
			ctx = requestcontext.WithActorEmail(ctx, identity.Email)
			ctx = requestcontext.WithRoles(ctx, identity.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subtree on a role claim. Must run after RequireAuth.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roles := requestcontext.Roles(r.Context())
			if !slices.Contains(roles, role) {
				logger.WarnContext(r.Context(), "forbidden - missing role",
					"role", role,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
