package product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/pkg/response"
)

// Handler handles product HTTP requests
type Handler struct {
	repo *Repository
}

// NewHandler creates product handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /products
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	productType := r.URL.Query().Get("type")
	if productType != "" && !Type(productType).Valid() {
		response.BadRequest(w, "invalid product type")
		return
	}

	products, err := h.repo.List(r.Context(), productType, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("list products failed")
		response.InternalError(w)
		return
	}

	response.OK(w, products)
}

// GetByID handles GET /products/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid product id")
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrProductNotFound) {
		response.NotFound(w, "product not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("product_id", id.String()).Msg("get product failed")
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}
