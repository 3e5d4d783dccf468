package feed

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the feed router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/feed", h.WebSocket)
	return r
}
