package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dunkey/dunkey-server/internal/server/auth"
)

type contextKey int

const userIDKey contextKey = iota

// authenticate extracts the Bearer access token, validates it and stores the
// user ID in the request context.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization required"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, a.jwtSecret)
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the authenticated user ID set by authenticate.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
