package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/session"
)

// RequireSession rejects requests while no user is signed in. Task routes
// sit behind this so repository calls never run anonymous.
func RequireSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.IsAuthenticated() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Sign in first",
					"code":  "NO_ACTIVE_SESSION",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
