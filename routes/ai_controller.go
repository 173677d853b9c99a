package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func GenerateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := generateRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid request body")
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "generate_form.prompt", "prompt is required")
			return
		}

		form, err := app.AI.GenerateForm(r.Context(), req.Prompt)
		if err != nil {
			httpx.LogInternalError(w, r, "ai.generate_form", err, "failed to generate form")
			return
		}

		render.JSON(w, r, form)
	}
}
