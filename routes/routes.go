package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/auth/login", Login(app))
	api.Get("/auth/check", CheckAuth(app))
	api.Post("/auth/logout", Logout(app))

	api.Get("/forms", ListForms(app))
	api.Get(`/forms/{id:^\d+$}`, GetFormById(app))
	api.Post(`/forms/{id:^\d+$}/submit`, SubmitForm(app))

	api.Post("/ai", GenerateForm(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Admin(app.Sessions))

		r.Post("/forms", CreateForm(app))
		r.Put(`/forms/{id:^\d+$}`, UpdateForm(app))
		r.Delete(`/forms/{id:^\d+$}`, DeleteForm(app))
		r.Get(`/forms/{id:^\d+$}/submissions`, GetFormSubmissions(app))
	})

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
