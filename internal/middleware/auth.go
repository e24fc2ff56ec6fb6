package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/meridianapps/contacts-api/internal/ctxkeys"
	"github.com/meridianapps/contacts-api/internal/service"
)

// RequireAuth gates a handler behind bearer-token authentication. It extracts
// the token from the Authorization header, verifies signature and expiry, and
// resolves the email claim to a stored user. A missing header, a malformed
// header, a bad token and a token for a user that no longer exists all get
// the same 401, so callers cannot probe for account existence. On success the
// resolved user is attached to the request context.
func RequireAuth(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" {
				unauthorized(w)
				return
			}

			user, err := authService.ResolveBearer(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"code":    http.StatusUnauthorized,
		"message": "Not authorized",
	})
}
