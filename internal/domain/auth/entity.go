package auth

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a back-office account. Customers never have accounts;
// admins manage bookings and cancellation requests.
type AdminUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
