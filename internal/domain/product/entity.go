package product

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type represents the kind of bookable product
type Type string

const (
	TypeExperience Type = "experience"
	TypeClass      Type = "class"
	TypeTrip       Type = "trip"
)

// Valid reports whether t is a known product type
func (t Type) Valid() bool {
	switch t {
	case TypeExperience, TypeClass, TypeTrip:
		return true
	}
	return false
}

// Product is a bookable listing published by a provider. Capacity defaults
// seed new availability slots; trips carry a fixed start date and duration.
type Product struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ProviderID   uuid.UUID      `db:"provider_id" json:"provider_id"`
	ProductType  Type           `db:"product_type" json:"product_type"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	City         string         `db:"city" json:"city"`
	MaxAdults    int            `db:"max_adults" json:"max_adults"`
	MaxDogs      int            `db:"max_dogs" json:"max_dogs"`
	StartDate    sql.NullTime   `db:"start_date" json:"start_date,omitempty"`
	DurationDays sql.NullInt64  `db:"duration_days" json:"duration_days,omitempty"`
	Active       bool           `db:"active" json:"active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
