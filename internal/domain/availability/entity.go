package availability

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Slot is one bookable unit of a product on one date, optionally scoped to a
// time window. booked_* counters are mutated only through Reserve/Release;
// 0 <= booked <= max holds at all times.
type Slot struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	ProductID    uuid.UUID    `db:"product_id" json:"product_id"`
	ProductType  string       `db:"product_type" json:"product_type"`
	Date         time.Time    `db:"slot_date" json:"date"`
	TimeSlot     sql.NullTime `db:"time_slot" json:"time_slot,omitempty"`
	EndTime      sql.NullTime `db:"end_time" json:"end_time,omitempty"`
	MaxAdults    int          `db:"max_adults" json:"max_adults"`
	MaxDogs      int          `db:"max_dogs" json:"max_dogs"`
	BookedAdults int          `db:"booked_adults" json:"booked_adults"`
	BookedDogs   int          `db:"booked_dogs" json:"booked_dogs"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// AvailableAdults returns remaining adult capacity
func (s *Slot) AvailableAdults() int {
	return s.MaxAdults - s.BookedAdults
}

// AvailableDogs returns remaining dog capacity
func (s *Slot) AvailableDogs() int {
	return s.MaxDogs - s.BookedDogs
}
