package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.version)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.list)
			r.Post("/", h.create)
			r.Post("/import", h.importEntries)
			r.Get("/export", h.exportEntries)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.get)
				r.Put("/", h.update)
				r.Delete("/", h.delete)
			})
		})
	})

	return router
}
