package cancellation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
	"github.com/pawtrails/pawtrails-api/internal/pkg/canceltoken"
	"github.com/pawtrails/pawtrails-api/internal/pkg/response"
	"github.com/pawtrails/pawtrails-api/internal/pkg/validator"
)

// Handler handles cancellation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates cancellation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /cancellations (public)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fieldErrors := validator.Validate(in); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}
	if in.Token == "" && (in.OrderNumber == "" || in.CustomerEmail == "") {
		response.BadRequest(w, "provide a cancel token, or an order number and email")
		return
	}

	req, err := h.service.Request(r.Context(), in)
	switch {
	case errors.Is(err, canceltoken.ErrNotFound):
		response.NotFound(w, "invalid or expired cancel token")
		return
	case errors.Is(err, booking.ErrBookingNotFound):
		response.NotFound(w, "booking not found")
		return
	case errors.Is(err, ErrEmailMismatch):
		response.Forbidden(w, "email does not match booking")
		return
	case errors.Is(err, ErrNotCancellable):
		response.Conflict(w, "booking cannot be cancelled in its current status")
		return
	case errors.Is(err, ErrAlreadyRequested):
		response.Conflict(w, "a cancellation request is already pending for this booking")
		return
	case err != nil:
		log.Error().Err(err).Msg("cancellation request failed")
		response.InternalError(w)
		return
	}

	response.Created(w, req)
}

// List handles GET /cancellations (admin)
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

	status := r.URL.Query().Get("status")
	if status != "" {
		if err := validator.ValidateVar(status, "oneof=pending approved rejected"); err != nil {
			response.BadRequest(w, "invalid status filter")
			return
		}
	}

	requests, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("list cancellation requests failed")
		response.InternalError(w)
		return
	}

	response.OK(w, requests)
}

// GetByID handles GET /cancellations/{id} (admin)
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid request id")
		return
	}

	req, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrRequestNotFound) {
		response.NotFound(w, "cancellation request not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", id.String()).Msg("get cancellation request failed")
		response.InternalError(w)
		return
	}

	response.OK(w, req)
}

// Resolve handles POST /cancellations/{id}/resolve (admin)
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid request id")
		return
	}

	var in ResolveRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fieldErrors := validator.Validate(in); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	req, err := h.service.Resolve(r.Context(), id, in)
	switch {
	case errors.Is(err, ErrRequestNotFound):
		response.NotFound(w, "cancellation request not found")
		return
	case errors.Is(err, ErrAlreadyResolved):
		response.Conflict(w, "cancellation request already resolved")
		return
	case errors.Is(err, booking.ErrInvalidTransition):
		response.Conflict(w, "booking cannot be cancelled in its current status")
		return
	case errors.Is(err, booking.ErrBookingNotFound):
		response.NotFound(w, "booking not found")
		return
	case err != nil:
		log.Error().Err(err).Str("request_id", id.String()).Msg("resolve cancellation failed")
		response.InternalError(w)
		return
	}

	response.OK(w, req)
}
