package availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/pkg/response"
)

// Handler handles availability HTTP requests (read side only; mutations go
// through the booking engine and cancellation workflow)
type Handler struct {
	repo *Repository
}

// NewHandler creates availability handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// SlotView is the public representation of a slot's remaining capacity
type SlotView struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	Date            string    `json:"date"`
	TimeSlot        string    `json:"time_slot,omitempty"`
	AvailableAdults int       `json:"available_adults"`
	AvailableDogs   int       `json:"available_dogs"`
}

func toView(s *Slot) SlotView {
	v := SlotView{
		ID:              s.ID,
		ProductID:       s.ProductID,
		Date:            s.Date.Format("2006-01-02"),
		AvailableAdults: s.AvailableAdults(),
		AvailableDogs:   s.AvailableDogs(),
	}
	if s.TimeSlot.Valid {
		v.TimeSlot = s.TimeSlot.Time.Format("15:04")
	}
	return v
}

// ListByProduct handles GET /availability?product_id=...&from=...&to=...
func (h *Handler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.URL.Query().Get("product_id"))
	if err != nil {
		response.BadRequest(w, "invalid product_id")
		return
	}

	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 3, 0)
	if f := r.URL.Query().Get("from"); f != "" {
		if parsed, err := time.Parse("2006-01-02", f); err == nil {
			from = parsed
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			to = parsed
		}
	}

	slots, err := h.repo.ListByProduct(r.Context(), productID, from, to)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID.String()).Msg("list slots failed")
		response.InternalError(w)
		return
	}

	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, toView(s))
	}
	response.OK(w, views)
}

// GetByID handles GET /availability/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid slot id")
		return
	}

	slot, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrSlotNotFound) {
		response.NotFound(w, "slot not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("slot_id", id.String()).Msg("get slot failed")
		response.InternalError(w)
		return
	}

	response.OK(w, toView(slot))
}

// Routes returns availability router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListByProduct)
	r.Get("/{id}", h.GetByID)

	return r
}
