package cancellation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the cancellation router. Creating a request is public
// (ownership is proven in the payload); reviewing and resolving is admin only.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Post("/{id}/resolve", h.Resolve)
	})

	return r
}
