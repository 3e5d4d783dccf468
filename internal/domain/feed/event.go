package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
)

// EventType for feed messages
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingCancelled EventType = "booking_cancelled"
)

// Event is one entry in the admin live feed
type Event struct {
	Type        EventType `json:"type"`
	BookingID   uuid.UUID `json:"booking_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	ProductID   uuid.UUID `json:"product_id"`
	Adults      int       `json:"adults"`
	Dogs        int       `json:"dogs"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	At          time.Time `json:"at"`
}

func newEvent(eventType EventType, b *booking.Booking) *Event {
	return &Event{
		Type:        eventType,
		BookingID:   b.ID,
		OrderNumber: b.OrderNumber,
		Status:      string(b.Status),
		ProductID:   b.ProductID,
		Adults:      b.NumberOfAdults,
		Dogs:        b.NumberOfDogs,
		Amount:      b.TotalAmountPaid,
		Currency:    b.Currency,
		At:          time.Now().UTC(),
	}
}
