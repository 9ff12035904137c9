package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const UserKey contextKey = "user"

// SessionValidator resolves a session token to the user it was issued for.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// RequireSession rejects requests that do not carry a valid session token
// in the Authorization header. Both bare tokens and the Bearer scheme are
// accepted. On success the session's user is stored in the request context.
func RequireSession(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				writeAuthError(w, "missing authorization header", "auth_required")
				return
			}
			token = strings.TrimPrefix(token, "Bearer ")

			user, err := sessions.Validate(r.Context(), token)
			if err != nil {
				writeAuthError(w, "invalid or expired session", "auth_invalid")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user stored by RequireSession.
func GetUser(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(UserKey).(string)
	return user, ok
}

func writeAuthError(w http.ResponseWriter, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  code,
	})
}
