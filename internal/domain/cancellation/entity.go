package cancellation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Request status values
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a customer's ask to cancel a booking. At most one pending
// request exists per booking; resolving one is terminal.
type Request struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	BookingID     uuid.UUID    `db:"booking_id" json:"booking_id"`
	OrderNumber   string       `db:"order_number" json:"order_number"`
	CustomerName  string       `db:"customer_name" json:"customer_name"`
	CustomerEmail string       `db:"customer_email" json:"customer_email"`
	Reason        string       `db:"reason" json:"reason"`
	Status        Status       `db:"status" json:"status"`
	AdminNote     string       `db:"admin_note" json:"admin_note"`
	RequestedAt   time.Time    `db:"requested_at" json:"requested_at"`
	ResolvedAt    sql.NullTime `db:"resolved_at" json:"resolved_at,omitempty"`
}
