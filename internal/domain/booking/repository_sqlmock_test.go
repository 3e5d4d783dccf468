package booking_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pawtrails/pawtrails-api/internal/domain/availability"
	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
)

var slotMockColumns = []string{
	"id", "product_id", "product_type", "slot_date", "time_slot", "end_time",
	"max_adults", "max_dogs", "booked_adults", "booked_dogs", "created_at", "updated_at",
}

var bookingMockColumns = []string{
	"id", "idempotency_key", "product_type", "product_id", "provider_id",
	"availability_slot_id", "status", "booking_date", "booking_time",
	"number_of_adults", "number_of_dogs", "total_amount_paid", "currency",
	"customer_name", "customer_email", "customer_phone", "order_number",
	"payment_provider", "payment_reference", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*booking.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	repo := booking.NewRepository(db, availability.NewRepository(db))
	return repo, mock, func() { db.Close() }
}

func mockSlotRow(f fixture, maxAdults, maxDogs, bookedAdults, bookedDogs int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(slotMockColumns).AddRow(
		f.slotID.String(), f.productID.String(), "experience", now, nil, nil,
		maxAdults, maxDogs, bookedAdults, bookedDogs, now, now,
	)
}

// An insert failure after the slot reservation must roll the whole
// transaction back, reservation included.
func TestCreateRollsBackOnInsertFailure(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	f := fixture{providerID: uuid.New(), productID: uuid.New(), slotID: uuid.New()}
	b := newTestBooking(f, "evt-mock-fail", 1, 1)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE idempotency_key").
		WithArgs("evt-mock-fail").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM availability_slots WHERE id = \\$1 FOR UPDATE").
		WithArgs(f.slotID).
		WillReturnRows(mockSlotRow(f, 5, 5, 0, 0))
	mock.ExpectExec("UPDATE availability_slots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err := repo.Create(context.Background(), b)
	if err == nil {
		t.Fatal("expected create to fail")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Losing the insert race on the idempotency key must roll back and hand the
// caller the winner's booking instead.
func TestCreateUniqueRaceReturnsWinner(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	f := fixture{providerID: uuid.New(), productID: uuid.New(), slotID: uuid.New()}
	b := newTestBooking(f, "evt-mock-race", 1, 0)
	winnerID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE idempotency_key").
		WithArgs("evt-mock-race").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM availability_slots WHERE id = \\$1 FOR UPDATE").
		WithArgs(f.slotID).
		WillReturnRows(mockSlotRow(f, 5, 5, 1, 1))
	mock.ExpectExec("UPDATE availability_slots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_idempotency_key_key"})
	mock.ExpectRollback()
	mock.ExpectQuery("FROM bookings WHERE idempotency_key").
		WithArgs("evt-mock-race").
		WillReturnRows(sqlmock.NewRows(bookingMockColumns).AddRow(
			winnerID.String(), "evt-mock-race", "experience", f.productID.String(), f.providerID.String(),
			f.slotID.String(), "confirmed", now, nil,
			1, 0, 4500, "GBP",
			"Jess Porter", "jess@test.com", "", "PT-WINNER",
			"", "", now, now,
		))

	got, created, err := repo.Create(context.Background(), b)
	if err != nil {
		t.Fatalf("expected winner booking, got error: %v", err)
	}
	if created {
		t.Fatal("expected created=false after losing the race")
	}
	if got.ID != winnerID {
		t.Fatalf("expected winner id %s, got %s", winnerID, got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// An admin cancel must release the slot counters in the same transaction as
// the status change, not just flip the status.
func TestChangeStatusCancelledReleasesCapacity(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	svc := booking.NewService(repo, nil, nil, nil, nil, time.Second, "")
	f := fixture{providerID: uuid.New(), productID: uuid.New(), slotID: uuid.New()}
	bookingID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id = \\$1 FOR UPDATE").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(bookingMockColumns).AddRow(
			bookingID.String(), "evt-mock-cancel", "experience", f.productID.String(), f.providerID.String(),
			f.slotID.String(), "confirmed", now, nil,
			2, 1, 4500, "GBP",
			"Jess Porter", "jess@test.com", "", "PT-CANCEL1",
			"", "", now, now,
		))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM availability_slots WHERE id = \\$1 FOR UPDATE").
		WithArgs(f.slotID).
		WillReturnRows(mockSlotRow(f, 5, 5, 2, 1))
	mock.ExpectExec("UPDATE availability_slots").
		WithArgs(0, 0, f.slotID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.ChangeStatus(context.Background(), bookingID, booking.StatusCancelled)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got.Status != booking.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A different unique violation must not be mistaken for an idempotency replay.
func TestCreateUnrelatedConstraintIsAnError(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	f := fixture{providerID: uuid.New(), productID: uuid.New(), slotID: uuid.New()}
	b := newTestBooking(f, "evt-mock-other", 1, 0)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE idempotency_key").
		WithArgs("evt-mock-other").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM availability_slots WHERE id = \\$1 FOR UPDATE").
		WithArgs(f.slotID).
		WillReturnRows(mockSlotRow(f, 5, 5, 0, 0))
	mock.ExpectExec("UPDATE availability_slots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_pkey"})
	mock.ExpectRollback()

	_, _, err := repo.Create(context.Background(), b)
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		t.Fatalf("expected the raw pq error to surface, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
