package middlewares

import (
	"net/http"

	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/session"
)

// Admin rejects requests that do not carry a valid admin session cookie.
func Admin(sessions *session.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Check(r) {
				httpx.LogStatus(w, r, http.StatusUnauthorized, log.DebugLevel, "auth.session", "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
