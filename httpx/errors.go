package httpx

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/log"
)

// Will log an error, and send a 500 response with a generic JSON error message
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error, msg string) {
	log.Errorf("%s: %s", code, err)
	Error(w, r, http.StatusInternalServerError, msg)
}

// Will log a debug message, and send a 404 response with a JSON error message
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, id any, msg string) {
	log.Debugf("%s: not found (%v)", code, id)
	Error(w, r, http.StatusNotFound, msg)
}

// Will log an error code and message at the given level, and send
// a response with the given status and JSON error message
func LogStatus(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string) {
	log.Log(level, code+":", msg)
	Error(w, r, status, msg)
}

// Error sends a JSON error body with the given status
func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": msg})
}
