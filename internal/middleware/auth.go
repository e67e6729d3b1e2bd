package middleware

import (
	"net/http"
	"strings"

	"github.com/hongminglow/expense-tracker-be/internal/auth"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
)

// Authenticate rejects requests without a valid bearer token and places the
// caller's identity on the request context.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				respond.Message(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(tokenStr))
			if err != nil {
				respond.Message(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID:   claims.Subject,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
