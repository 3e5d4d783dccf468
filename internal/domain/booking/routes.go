package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the admin-facing booking router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Patch("/{id}/status", h.UpdateStatus)
	})

	return r
}

// WebhookRoutes returns the payment webhook router (no auth; the payment
// provider is authenticated at the edge)
func (h *Handler) WebhookRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/payments/confirmed", h.PaymentConfirmed)
	return r
}
