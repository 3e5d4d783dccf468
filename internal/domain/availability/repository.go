package availability

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const slotColumns = `
	id, product_id, product_type, slot_date, time_slot, end_time,
	max_adults, max_dogs, booked_adults, booked_dogs, created_at, updated_at
`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	var s Slot
	err := r.db.GetContext(ctx, &s, `SELECT `+slotColumns+` FROM availability_slots WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, from, to time.Time) ([]*Slot, error) {
	slots := []*Slot{}
	err := r.db.SelectContext(ctx, &slots, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE product_id = $1 AND slot_date >= $2 AND slot_date <= $3
		ORDER BY slot_date, time_slot NULLS FIRST
	`, productID, from, to)
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// LockTx acquires an exclusive row lock on the slot for the duration of the
// surrounding transaction. Every capacity mutation starts here so that
// concurrent check-and-increment sequences against the same slot serialize.
func (r *Repository) LockTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID) (*Slot, error) {
	var s Slot
	err := tx.GetContext(ctx, &s, `SELECT `+slotColumns+` FROM availability_slots WHERE id = $1 FOR UPDATE`, slotID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ReserveTx checks and increments capacity on an already-locked slot inside
// the caller's transaction. On capacity exhaustion nothing is written and a
// CapacityError naming the worse dimension is returned.
func (r *Repository) ReserveTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID, adults, dogs int) (*Slot, error) {
	if adults < 0 || dogs < 0 {
		return nil, ErrInvalidCounts
	}

	slot, err := r.LockTx(ctx, tx, slotID)
	if err != nil {
		return nil, err
	}

	adultsOver := slot.BookedAdults + adults - slot.MaxAdults
	dogsOver := slot.BookedDogs + dogs - slot.MaxDogs
	if adultsOver > 0 || dogsOver > 0 {
		if adultsOver >= dogsOver {
			return nil, &CapacityError{
				Dimension: DimensionAdults,
				Requested: adults,
				Available: slot.AvailableAdults(),
			}
		}
		return nil, &CapacityError{
			Dimension: DimensionDogs,
			Requested: dogs,
			Available: slot.AvailableDogs(),
		}
	}

	slot.BookedAdults += adults
	slot.BookedDogs += dogs
	if err := r.updateCountersTx(ctx, tx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// ReleaseTx decrements capacity on the slot inside the caller's transaction,
// floored at zero. A floor hit means the counters drifted and is logged.
func (r *Repository) ReleaseTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID, adults, dogs int) (*Slot, error) {
	if adults < 0 || dogs < 0 {
		return nil, ErrInvalidCounts
	}

	slot, err := r.LockTx(ctx, tx, slotID)
	if err != nil {
		return nil, err
	}

	nextAdults := slot.BookedAdults - adults
	nextDogs := slot.BookedDogs - dogs
	if nextAdults < 0 || nextDogs < 0 {
		log.Warn().
			Str("slot_id", slotID.String()).
			Int("booked_adults", slot.BookedAdults).
			Int("booked_dogs", slot.BookedDogs).
			Int("release_adults", adults).
			Int("release_dogs", dogs).
			Msg("Release would go negative, flooring at zero")
	}
	if nextAdults < 0 {
		nextAdults = 0
	}
	if nextDogs < 0 {
		nextDogs = 0
	}

	slot.BookedAdults = nextAdults
	slot.BookedDogs = nextDogs
	if err := r.updateCountersTx(ctx, tx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (r *Repository) updateCountersTx(ctx context.Context, tx *sqlx.Tx, slot *Slot) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE availability_slots
		SET booked_adults = $1, booked_dogs = $2, updated_at = now()
		WHERE id = $3
	`, slot.BookedAdults, slot.BookedDogs, slot.ID)
	return err
}

// Reserve checks and increments capacity in its own transaction.
func (r *Repository) Reserve(ctx context.Context, slotID uuid.UUID, adults, dogs int) (*Slot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	slot, err := r.ReserveTx(ctx, tx, slotID, adults, dogs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return slot, nil
}

// Release decrements capacity in its own transaction.
func (r *Repository) Release(ctx context.Context, slotID uuid.UUID, adults, dogs int) (*Slot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	slot, err := r.ReleaseTx(ctx, tx, slotID, adults, dogs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return slot, nil
}
