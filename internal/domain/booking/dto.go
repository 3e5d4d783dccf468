package booking

import (
	"github.com/google/uuid"
)

// PaymentConfirmedEvent is the inbound payload from the hosted payment
// provider's webhook. The idempotency key is derived from the payment event
// upstream, so redelivery carries the same key.
type PaymentConfirmedEvent struct {
	IdempotencyKey     string `json:"idempotency_key" validate:"required,min=8,max=128"`
	ProductID          string `json:"product_id" validate:"required,uuid"`
	ProductType        string `json:"product_type" validate:"required,product_type"`
	ProviderID         string `json:"provider_id" validate:"required,uuid"`
	AvailabilitySlotID string `json:"availability_slot_id" validate:"omitempty,uuid"`
	BookingDate        string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime        string `json:"booking_time" validate:"omitempty,datetime=15:04"`
	Adults             int    `json:"adults" validate:"gte=0"`
	Dogs               int    `json:"dogs" validate:"gte=0"`
	Amount             int64  `json:"amount" validate:"gte=0"`
	Currency           string `json:"currency" validate:"required,currency"`
	CustomerName       string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail      string `json:"customer_email" validate:"required,email"`
	CustomerPhone      string `json:"customer_phone" validate:"omitempty,max=50"`
	OrderNumber        string `json:"order_number" validate:"omitempty,max=64"`
	PaymentProvider    string `json:"payment_provider" validate:"omitempty,max=50"`
	PaymentReference   string `json:"payment_reference" validate:"omitempty,max=128"`
}

// CreateBookingResult is returned to the webhook caller
type CreateBookingResult struct {
	BookingID   uuid.UUID `json:"booking_id"`
	OrderNumber string    `json:"order_number"`
	Status      Status    `json:"status"`
	Created     bool      `json:"created"`
}

// UpdateStatusRequest for PATCH /bookings/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}
