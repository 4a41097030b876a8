package web

import (
	"net/http"

	"github.com/EmpoweredVote/lego-catalog/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if s.opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SessionMiddleware(s.sessions))

	if s.opts.StaticDir != "" {
		r.Handle("/css/*", http.FileServer(http.Dir(s.opts.StaticDir)))
	}

	r.Get("/", s.HomeHandler)
	r.Get("/about", s.AboutHandler)

	r.Route("/lego", func(r chi.Router) {
		r.Get("/sets", s.ListSetsHandler)
		r.Get("/sets/{setNum}", s.SetHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin)
			r.Get("/addSet", s.AddSetFormHandler)
			r.Post("/addSet", s.AddSetHandler)
			r.Get("/editSet/{setNum}", s.EditSetFormHandler)
			r.Post("/editSet", s.EditSetHandler)
			r.Get("/deleteSet/{setNum}", s.DeleteSetHandler)
		})
	})

	r.Get("/login", s.LoginFormHandler)
	r.Get("/register", s.RegisterFormHandler)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.opts.LoginRate, s.opts.LoginBurst))
		r.Post("/login", s.LoginHandler)
		r.Post("/register", s.RegisterHandler)
	})
	r.Get("/logout", s.LogoutHandler)
	r.With(middleware.RequireLogin).Get("/userHistory", s.UserHistoryHandler)

	r.NotFound(s.NotFoundHandler)
	r.MethodNotAllowed(s.NotFoundHandler)

	return r
}
