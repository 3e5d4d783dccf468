package cancellation

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/domain/availability"
	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
)

// TokenConsumer redeems single-use cancel tokens for a booking id
type TokenConsumer interface {
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}

// Mailer sends cancellation outcome emails; failures never affect the resolve
type Mailer interface {
	SendCancellationApproved(to, toName, customerName, productTitle, orderNumber string)
	SendCancellationRejected(to, toName, customerName, orderNumber, adminNote string)
}

// Events receives cancellation outcomes for the admin live feed
type Events interface {
	PublishBookingCancelled(b *booking.Booking)
}

// ProductTitles resolves product titles for notification content
type ProductTitles interface {
	GetTitle(ctx context.Context, productID uuid.UUID) (string, error)
}

// Service runs the cancellation workflow: customers open requests, admins
// resolve them. Approval cancels the booking and returns its slot capacity
// in one transaction.
type Service struct {
	repo     *Repository
	bookings *booking.Repository
	slots    *availability.Repository
	tokens   TokenConsumer
	mailer   Mailer
	events   Events
	products ProductTitles
}

// NewService creates cancellation service. tokens, mailer, events and
// products may be nil; the corresponding behavior is skipped.
func NewService(repo *Repository, bookings *booking.Repository, slots *availability.Repository, tokens TokenConsumer, mailer Mailer, events Events, products ProductTitles) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		slots:    slots,
		tokens:   tokens,
		mailer:   mailer,
		events:   events,
		products: products,
	}
}

// Request opens a cancellation request. The caller proves ownership either
// with the single-use token from the confirmation email, or with the order
// number plus the email the booking was made under. Only confirmed bookings
// can be requested for cancellation, and only one request may be pending
// per booking at a time.
func (s *Service) Request(ctx context.Context, in CreateRequestInput) (*Request, error) {
	b, err := s.resolveBooking(ctx, in)
	if err != nil {
		return nil, err
	}

	if b.Status != booking.StatusConfirmed {
		return nil, ErrNotCancellable
	}

	req := &Request{
		ID:            uuid.New(),
		BookingID:     b.ID,
		OrderNumber:   b.OrderNumber,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Reason:        in.Reason,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID.String()).
		Str("booking_id", b.ID.String()).
		Str("order_number", b.OrderNumber).
		Msg("cancellation requested")
	return req, nil
}

func (s *Service) resolveBooking(ctx context.Context, in CreateRequestInput) (*booking.Booking, error) {
	if in.Token != "" && s.tokens != nil {
		bookingID, err := s.tokens.Consume(ctx, in.Token)
		if err != nil {
			return nil, err
		}
		return s.bookings.GetByID(ctx, bookingID)
	}

	if in.OrderNumber == "" || in.CustomerEmail == "" {
		return nil, booking.ErrBookingNotFound
	}
	b, err := s.bookings.GetByOrderNumber(ctx, in.OrderNumber)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(b.CustomerEmail, in.CustomerEmail) {
		return nil, ErrEmailMismatch
	}
	return b, nil
}

// Resolve applies the admin decision. Everything that must hold together
// holds together: the request flips out of pending, the booking transitions
// to cancelled and the slot capacity comes back, all in one transaction.
// A request already resolved by a concurrent admin returns ErrAlreadyResolved.
func (s *Service) Resolve(ctx context.Context, requestID uuid.UUID, in ResolveRequestInput) (*Request, error) {
	tx, err := s.bookings.DB().BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	req, err := s.repo.LockTx(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, ErrAlreadyResolved
	}

	b, err := s.bookings.GetByIDTx(ctx, tx, req.BookingID)
	if err != nil {
		return nil, err
	}

	approved := in.Action == "approve"
	if approved {
		if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, booking.StatusCancelled); err != nil {
			return nil, err
		}
		if b.AvailabilitySlotID.Valid {
			if _, err := s.slots.ReleaseTx(ctx, tx, b.AvailabilitySlotID.UUID, b.NumberOfAdults, b.NumberOfDogs); err != nil {
				return nil, err
			}
		}
		req.Status = StatusApproved
	} else {
		req.Status = StatusRejected
	}
	req.AdminNote = in.AdminNote

	if err := s.repo.ResolveTx(ctx, tx, req.ID, req.Status, req.AdminNote); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID.String()).
		Str("booking_id", b.ID.String()).
		Str("outcome", string(req.Status)).
		Msg("cancellation resolved")

	s.afterResolve(ctx, req, b, approved)
	return req, nil
}

// afterResolve fires the decoupled side effects of a resolved request
func (s *Service) afterResolve(ctx context.Context, req *Request, b *booking.Booking, approved bool) {
	if s.mailer != nil {
		if approved {
			var productTitle string
			if s.products != nil {
				title, err := s.products.GetTitle(ctx, b.ProductID)
				if err != nil {
					log.Warn().Err(err).Str("product_id", b.ProductID.String()).Msg("product title lookup failed")
				} else {
					productTitle = title
				}
			}
			s.mailer.SendCancellationApproved(b.CustomerEmail, b.CustomerName, b.CustomerName, productTitle, b.OrderNumber)
		} else {
			s.mailer.SendCancellationRejected(b.CustomerEmail, b.CustomerName, b.CustomerName, b.OrderNumber, req.AdminNote)
		}
	}

	if approved && s.events != nil {
		b.Status = booking.StatusCancelled
		s.events.PublishBookingCancelled(b)
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Request, error) {
	return s.repo.List(ctx, status, limit, offset)
}
