package booking

import "errors"

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrSlotProductMismatch = errors.New("availability slot does not belong to the stated product")
	ErrMissingKey          = errors.New("idempotency key is required")
)
