package booking

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/domain/availability"
	"github.com/pawtrails/pawtrails-api/internal/pkg/response"
	"github.com/pawtrails/pawtrails-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PaymentConfirmed handles POST /webhooks/payments/confirmed
//
// The hosted checkout calls this once payment settles. Redelivery is safe:
// the same idempotency key always yields the same booking id. 5xx responses
// tell the provider to retry with the identical payload.
func (h *Handler) PaymentConfirmed(w http.ResponseWriter, r *http.Request) {
	var event PaymentConfirmedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if fieldErrors := validator.Validate(event); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	in, err := parseEvent(event)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.Create(r.Context(), *in)
	if err != nil {
		h.writeCreateError(w, event, err)
		return
	}

	response.OK(w, result)
}

func (h *Handler) writeCreateError(w http.ResponseWriter, event PaymentConfirmedEvent, err error) {
	if capErr, ok := availability.AsCapacityError(err); ok {
		log.Warn().
			Str("idempotency_key", event.IdempotencyKey).
			Str("slot_id", event.AvailabilitySlotID).
			Str("dimension", capErr.Dimension).
			Int("requested", capErr.Requested).
			Int("available", capErr.Available).
			Msg("booking rejected, capacity exceeded")
		response.ErrorWithDetails(w, http.StatusConflict, "CAPACITY_EXCEEDED", capErr.Error(), map[string]string{
			"dimension": capErr.Dimension,
			"requested": strconv.Itoa(capErr.Requested),
			"available": strconv.Itoa(capErr.Available),
		})
		return
	}

	switch {
	case errors.Is(err, availability.ErrSlotNotFound):
		response.NotFound(w, "availability slot not found")
	case errors.Is(err, ErrSlotProductMismatch):
		response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", map[string]string{
			"availability_slot_id": "slot does not belong to the stated product",
		})
	case errors.Is(err, ErrMissingKey):
		response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", map[string]string{
			"idempotency_key": "This field is required",
		})
	default:
		// Retryable: the payment provider redelivers with the same key.
		log.Error().Err(err).
			Str("idempotency_key", event.IdempotencyKey).
			Msg("booking creation failed")
		response.InternalError(w)
	}
}

func parseEvent(event PaymentConfirmedEvent) (*CreateInput, error) {
	productID, err := uuid.Parse(event.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id")
	}
	providerID, err := uuid.Parse(event.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("invalid provider_id")
	}

	var slotID uuid.NullUUID
	if event.AvailabilitySlotID != "" {
		id, err := uuid.Parse(event.AvailabilitySlotID)
		if err != nil {
			return nil, fmt.Errorf("invalid availability_slot_id")
		}
		slotID = uuid.NullUUID{UUID: id, Valid: true}
	}

	bookingDate, err := time.Parse("2006-01-02", event.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid booking_date")
	}

	var bookingTime sql.NullTime
	if event.BookingTime != "" {
		t, err := time.Parse("15:04", event.BookingTime)
		if err != nil {
			return nil, fmt.Errorf("invalid booking_time")
		}
		bookingTime = sql.NullTime{Time: t, Valid: true}
	}

	return &CreateInput{
		IdempotencyKey:     event.IdempotencyKey,
		ProductID:          productID,
		ProductType:        event.ProductType,
		ProviderID:         providerID,
		AvailabilitySlotID: slotID,
		BookingDate:        bookingDate,
		BookingTime:        bookingTime,
		Adults:             event.Adults,
		Dogs:               event.Dogs,
		Amount:             event.Amount,
		Currency:           event.Currency,
		CustomerName:       event.CustomerName,
		CustomerEmail:      event.CustomerEmail,
		CustomerPhone:      event.CustomerPhone,
		OrderNumber:        event.OrderNumber,
		PaymentProvider:    event.PaymentProvider,
		PaymentReference:   event.PaymentReference,
	}, nil
}

// GetByID handles GET /bookings/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrBookingNotFound) {
		response.NotFound(w, "booking not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("booking_id", id.String()).Msg("get booking failed")
		response.InternalError(w)
		return
	}

	response.OK(w, b)
}

// List handles GET /bookings (admin)
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
		if err := validator.ValidateVar(status, "booking_status"); err != nil {
			response.BadRequest(w, "invalid status filter")
			return
		}
	}

	bookings, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("list bookings failed")
		response.InternalError(w)
		return
	}

	response.OK(w, bookings)
}

// UpdateStatus handles PATCH /bookings/{id}/status (admin)
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	b, err := h.service.ChangeStatus(r.Context(), id, Status(req.Status))
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "booking not found")
		return
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "transition not allowed from current status")
		return
	case err != nil:
		log.Error().Err(err).Str("booking_id", id.String()).Msg("status change failed")
		response.InternalError(w)
		return
	}

	response.OK(w, b)
}
