package product

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns product router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	return r
}
