package booking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pawtrails/pawtrails-api/internal/domain/availability"
)

const bookingColumns = `
	id, idempotency_key, product_type, product_id, provider_id,
	availability_slot_id, status, booking_date, booking_time,
	number_of_adults, number_of_dogs, total_amount_paid, currency,
	customer_name, customer_email, customer_phone, order_number,
	payment_provider, payment_reference, created_at, updated_at
`

// Repository is the booking transaction engine. It owns all writes to the
// bookings table and drives slot capacity changes through the availability
// repository so that both commit or roll back together.
type Repository struct {
	db    *sqlx.DB
	slots *availability.Repository
}

func NewRepository(db *sqlx.DB, slots *availability.Repository) *Repository {
	return &Repository{db: db, slots: slots}
}

// Create turns a paid booking request into exactly one committed booking.
//
// One transaction: look up the idempotency key, lock and reserve the slot,
// insert the booking, commit. A duplicate-key insert means another delivery
// of the same payment event won the race; the transaction (including the
// reservation) rolls back and the winner's booking is returned instead.
// Returns created=false whenever an existing booking is returned.
func (r *Repository) Create(ctx context.Context, b *Booking) (*Booking, bool, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	// Fast path for redelivered events. The unique constraint below remains
	// the authority; this read just avoids locking the slot for replays.
	existing, err := r.getByKeyTx(ctx, tx, b.IdempotencyKey)
	if err != nil && !errors.Is(err, ErrBookingNotFound) {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if b.AvailabilitySlotID.Valid {
		slot, err := r.slots.ReserveTx(ctx, tx, b.AvailabilitySlotID.UUID, b.NumberOfAdults, b.NumberOfDogs)
		if err != nil {
			return nil, false, err
		}
		// Any error from here on aborts the transaction, so the increment
		// above never outlives a failed booking.
		if slot.ProductID != b.ProductID {
			return nil, false, ErrSlotProductMismatch
		}
	}

	if err := r.insertTx(ctx, tx, b); err != nil {
		if isUniqueViolation(err, "bookings_idempotency_key_key") {
			// Lost the insert race. The aborted transaction takes the slot
			// reservation with it; re-read the winner outside it.
			tx.Rollback()
			winner, readErr := r.GetByIdempotencyKey(ctx, b.IdempotencyKey)
			if readErr != nil {
				return nil, false, readErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Repository) insertTx(ctx context.Context, tx *sqlx.Tx, b *Booking) error {
	return tx.QueryRowxContext(ctx, `
		INSERT INTO bookings (
			id, idempotency_key, product_type, product_id, provider_id,
			availability_slot_id, status, booking_date, booking_time,
			number_of_adults, number_of_dogs, total_amount_paid, currency,
			customer_name, customer_email, customer_phone, order_number,
			payment_provider, payment_reference
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at
	`,
		b.ID, b.IdempotencyKey, b.ProductType, b.ProductID, b.ProviderID,
		b.AvailabilitySlotID, b.Status, b.BookingDate, b.BookingTime,
		b.NumberOfAdults, b.NumberOfDogs, b.TotalAmountPaid, b.Currency,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.OrderNumber,
		b.PaymentProvider, b.PaymentReference,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *Repository) getByKeyTx(ctx context.Context, tx *sqlx.Tx, key string) (*Booking, error) {
	var b Booking
	err := tx.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE idempotency_key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByIdempotencyKey returns the booking created for a payment event key
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE idempotency_key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByIDTx reads the booking inside a caller-owned transaction
func (r *Repository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := tx.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE order_number = $1`, orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	bookings := []*Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus transitions a booking, validating the stored status in the
// same statement that writes the new one. Stale callers lose cleanly: if the
// stored status does not permit the transition, zero rows update.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = now()
		WHERE id = $2 AND status = ANY($3)
	`, to, id, pq.Array(transitionSources(to)))
	if err != nil {
		return err
	}
	return r.checkTransitionResult(ctx, res, id)
}

// UpdateStatusTx is UpdateStatus inside a caller-owned transaction; the
// cancellation workflow uses it so status change and capacity release commit
// together.
func (r *Repository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, to Status) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = now()
		WHERE id = $2 AND status = ANY($3)
	`, to, id, pq.Array(transitionSources(to)))
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var current Status
		err := tx.GetContext(ctx, &current, `SELECT status FROM bookings WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

// Cancel transitions the booking to cancelled and returns any slot capacity
// it holds, in one transaction. Status change and release commit together so
// a cancelled booking can never keep its seats.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b, err := r.GetByIDTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := r.UpdateStatusTx(ctx, tx, id, StatusCancelled); err != nil {
		return nil, err
	}
	if b.AvailabilitySlotID.Valid {
		if _, err := r.slots.ReleaseTx(ctx, tx, b.AvailabilitySlotID.UUID, b.NumberOfAdults, b.NumberOfDogs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled
	return b, nil
}

func (r *Repository) checkTransitionResult(ctx context.Context, res sql.Result, id uuid.UUID) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var current Status
		err := r.db.GetContext(ctx, &current, `SELECT status FROM bookings WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

// DB exposes the underlying handle for workflows that span domains in one
// transaction (cancellation resolve).
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return constraint == "" || pqErr.Constraint == constraint
	}
	return false
}
