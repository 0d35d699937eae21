package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jeevandaan/website/pkg/clientip"
)

// NewRouter assembles the HTTP routes with the shared middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(clientip.Middleware)

	r.Get("/", h.Page)
	r.Post("/submit", h.Submit)
	r.Post("/api/forms/{form}", h.SubmitJSON)
	r.Get("/healthz", h.Health)

	return r
}
