package cancellation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const requestColumns = `
	id, booking_id, order_number, customer_name, customer_email,
	reason, status, admin_note, requested_at, resolved_at
`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a pending request. The partial unique index on
// (booking_id) WHERE status = 'pending' collapses concurrent submissions
// for the same booking into one winner; losers get ErrAlreadyRequested.
func (r *Repository) Create(ctx context.Context, req *Request) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO cancellation_requests (
			id, booking_id, order_number, customer_name, customer_email, reason, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING requested_at
	`, req.ID, req.BookingID, req.OrderNumber, req.CustomerName, req.CustomerEmail, req.Reason, req.Status,
	).Scan(&req.RequestedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyRequested
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	err := r.db.GetContext(ctx, &req, `SELECT `+requestColumns+` FROM cancellation_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// LockTx loads the request under an exclusive row lock so that concurrent
// resolve attempts serialize and the loser sees the resolved status.
func (r *Repository) LockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Request, error) {
	var req Request
	err := tx.GetContext(ctx, &req, `SELECT `+requestColumns+` FROM cancellation_requests WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ResolveTx marks the request resolved inside the caller's transaction
func (r *Repository) ResolveTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status Status, adminNote string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE cancellation_requests
		SET status = $1, admin_note = $2, resolved_at = now()
		WHERE id = $3
	`, status, adminNote, id)
	return err
}

func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM cancellation_requests`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY requested_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY requested_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	requests := []*Request{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, err
	}
	return requests, nil
}
