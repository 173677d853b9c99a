package routes

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/session"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := credentials{}
		err := render.DecodeJSON(r.Body, &creds)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid request body")
			return
		}

		if !app.Sessions.VerifyCredentials(creds.Username, creds.Password) {
			httpx.LogStatus(w, r, http.StatusUnauthorized, log.DebugLevel, "login.credentials", "invalid credentials")
			return
		}

		cookie, err := app.Sessions.IssueCookie()
		if err != nil {
			httpx.LogInternalError(w, r, "login.issue_cookie", err, "failed to log in")
			return
		}
		http.SetCookie(w, cookie)

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Login successful",
		})
	}
}

func CheckAuth(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"authenticated": app.Sessions.Check(r),
		})
	}
}

func Logout(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, session.ClearCookie())
		render.JSON(w, r, map[string]any{
			"success": true,
		})
	}
}
