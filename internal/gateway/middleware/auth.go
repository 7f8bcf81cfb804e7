package middleware

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

// defaultUserID identifies requests when auth is disabled (local dev).
const defaultUserID = "local"

// Auth resolves the calling user at the boundary. tokens maps bearer token to
// user id; with a non-empty map every request must present a known token and
// runs as that token's user. With an empty map auth is disabled and the user
// id comes from the X-User-ID header, defaulting to the local user.
func Auth(tokens map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := strings.TrimSpace(r.Header.Get("X-User-ID"))
			if len(tokens) > 0 {
				got := strings.TrimSpace(r.Header.Get("Authorization"))
				if !strings.HasPrefix(got, "Bearer ") {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				user, ok := tokens[strings.TrimSpace(strings.TrimPrefix(got, "Bearer "))]
				if !ok {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				uid = user
			}
			if uid == "" {
				uid = defaultUserID
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
		})
	}
}

// WithUserID stores the caller's user id in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the caller's user id, or the local default.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey{}).(string); ok && v != "" {
		return v
	}
	return defaultUserID
}
