package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking lifecycle status
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking is the record of a paid reservation. Created once per idempotency
// key; never hard-deleted.
type Booking struct {
	ID                 uuid.UUID     `db:"id" json:"id"`
	IdempotencyKey     string        `db:"idempotency_key" json:"idempotency_key"`
	ProductType        string        `db:"product_type" json:"product_type"`
	ProductID          uuid.UUID     `db:"product_id" json:"product_id"`
	ProviderID         uuid.UUID     `db:"provider_id" json:"provider_id"`
	AvailabilitySlotID uuid.NullUUID `db:"availability_slot_id" json:"availability_slot_id,omitempty"`
	Status             Status        `db:"status" json:"status"`
	BookingDate        time.Time     `db:"booking_date" json:"booking_date"`
	BookingTime        sql.NullTime  `db:"booking_time" json:"booking_time,omitempty"`
	NumberOfAdults     int           `db:"number_of_adults" json:"number_of_adults"`
	NumberOfDogs       int           `db:"number_of_dogs" json:"number_of_dogs"`
	TotalAmountPaid    int64         `db:"total_amount_paid" json:"total_amount_paid"`
	Currency           string        `db:"currency" json:"currency"`
	CustomerName       string        `db:"customer_name" json:"customer_name"`
	CustomerEmail      string        `db:"customer_email" json:"customer_email"`
	CustomerPhone      string        `db:"customer_phone" json:"customer_phone"`
	OrderNumber        string        `db:"order_number" json:"order_number"`
	PaymentProvider    string        `db:"payment_provider" json:"payment_provider"`
	PaymentReference   string        `db:"payment_reference" json:"payment_reference"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}
