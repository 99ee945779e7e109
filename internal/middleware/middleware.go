package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dan9191/user-service/internal/auth"
	"github.com/Dan9191/user-service/internal/config"
)

type contextKey string

// UserIDKey is the request-context key under which the authenticated
// user's id is stored.
const UserIDKey contextKey = "userID"

// UserIDFromContext extracts the authenticated user id set by
// AuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// AuthMiddleware verifies the bearer token and stores the embedded
// user id in the request context. It does not check that the user
// still exists; handlers resolve the id against the store.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w, "Bearer token is required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			userID, err := auth.ParseToken(token, []byte(cfg.JWTSecret))
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
