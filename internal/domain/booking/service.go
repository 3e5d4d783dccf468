package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/pkg/email"
)

// Mailer sends booking lifecycle emails; failures never affect bookings
type Mailer interface {
	SendBookingConfirmed(to, toName string, data email.BookingConfirmedData)
}

// Events receives booking lifecycle events for the admin live feed
type Events interface {
	PublishBookingCreated(b *Booking)
	PublishBookingCancelled(b *Booking)
}

// TokenIssuer mints single-use cancellation tokens for confirmed bookings
type TokenIssuer interface {
	Issue(ctx context.Context, bookingID uuid.UUID) (string, error)
}

// ProductTitles resolves product titles for notification content
type ProductTitles interface {
	GetTitle(ctx context.Context, productID uuid.UUID) (string, error)
}

// CreateInput is the parsed, validated form of a payment-confirmed event
type CreateInput struct {
	IdempotencyKey     string
	ProductID          uuid.UUID
	ProductType        string
	ProviderID         uuid.UUID
	AvailabilitySlotID uuid.NullUUID
	BookingDate        time.Time
	BookingTime        sql.NullTime
	Adults             int
	Dogs               int
	Amount             int64
	Currency           string
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	OrderNumber        string
	PaymentProvider    string
	PaymentReference   string
}

// Service orchestrates booking creation and status changes
type Service struct {
	repo        *Repository
	mailer      Mailer
	events      Events
	tokens      TokenIssuer
	products    ProductTitles
	txTimeout   time.Duration
	frontendURL string
}

// NewService creates booking service. mailer, events, tokens and products
// may be nil; the corresponding side effects are skipped.
func NewService(repo *Repository, mailer Mailer, events Events, tokens TokenIssuer, products ProductTitles, txTimeout time.Duration, frontendURL string) *Service {
	if txTimeout <= 0 {
		txTimeout = 10 * time.Second
	}
	return &Service{
		repo:        repo,
		mailer:      mailer,
		events:      events,
		tokens:      tokens,
		products:    products,
		txTimeout:   txTimeout,
		frontendURL: frontendURL,
	}
}

// Create runs the booking transaction for a confirmed payment. Safe to retry
// with the same idempotency key: replays return the original booking with
// Created=false and touch no capacity.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateBookingResult, error) {
	if strings.TrimSpace(in.IdempotencyKey) == "" {
		return nil, ErrMissingKey
	}

	b := &Booking{
		ID:                 uuid.New(),
		IdempotencyKey:     in.IdempotencyKey,
		ProductType:        in.ProductType,
		ProductID:          in.ProductID,
		ProviderID:         in.ProviderID,
		AvailabilitySlotID: in.AvailabilitySlotID,
		Status:             StatusConfirmed,
		BookingDate:        in.BookingDate,
		BookingTime:        in.BookingTime,
		NumberOfAdults:     in.Adults,
		NumberOfDogs:       in.Dogs,
		TotalAmountPaid:    in.Amount,
		Currency:           in.Currency,
		CustomerName:       in.CustomerName,
		CustomerEmail:      in.CustomerEmail,
		CustomerPhone:      in.CustomerPhone,
		OrderNumber:        in.OrderNumber,
		PaymentProvider:    in.PaymentProvider,
		PaymentReference:   in.PaymentReference,
	}
	if b.OrderNumber == "" {
		b.OrderNumber = generateOrderNumber()
	}

	// Bounded transaction: on timeout the lock is released and the whole
	// transaction rolls back, so the caller can retry with the same key.
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	created, isNew, err := s.repo.Create(txCtx, b)
	if err != nil {
		return nil, err
	}

	if isNew {
		log.Info().
			Str("booking_id", created.ID.String()).
			Str("order_number", created.OrderNumber).
			Str("product_id", created.ProductID.String()).
			Int("adults", created.NumberOfAdults).
			Int("dogs", created.NumberOfDogs).
			Msg("booking created")
		s.afterCreate(ctx, created)
	} else {
		log.Info().
			Str("booking_id", created.ID.String()).
			Str("idempotency_key", created.IdempotencyKey).
			Msg("duplicate payment event, returning existing booking")
	}

	return &CreateBookingResult{
		BookingID:   created.ID,
		OrderNumber: created.OrderNumber,
		Status:      created.Status,
		Created:     isNew,
	}, nil
}

// afterCreate fires the decoupled side effects of a new booking. None of
// them may fail the booking; errors are logged and dropped.
func (s *Service) afterCreate(ctx context.Context, b *Booking) {
	cancelURL := s.frontendURL + "/bookings/manage?order=" + b.OrderNumber
	if s.tokens != nil {
		token, err := s.tokens.Issue(ctx, b.ID)
		if err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("cancel token issue failed")
		} else {
			cancelURL = s.frontendURL + "/bookings/manage?token=" + token
		}
	}

	var productTitle string
	if s.products != nil {
		title, err := s.products.GetTitle(ctx, b.ProductID)
		if err != nil {
			log.Warn().Err(err).Str("product_id", b.ProductID.String()).Msg("product title lookup failed")
		} else {
			productTitle = title
		}
	}

	if s.mailer != nil {
		s.mailer.SendBookingConfirmed(b.CustomerEmail, b.CustomerName, email.BookingConfirmedData{
			CustomerName: b.CustomerName,
			ProductTitle: productTitle,
			OrderNumber:  b.OrderNumber,
			BookingDate:  b.BookingDate.Format("2 January 2006"),
			Adults:       b.NumberOfAdults,
			Dogs:         b.NumberOfDogs,
			Amount:       formatAmount(b.TotalAmountPaid),
			Currency:     b.Currency,
			CancelURL:    cancelURL,
		})
	}

	if s.events != nil {
		s.events.PublishBookingCreated(b)
	}
}

// ChangeStatus applies an admin-requested status transition. The stored
// status is validated inside the update itself, so callers with stale reads
// cannot force an illegal transition. Cancelling goes through Cancel so the
// slot capacity comes back in the same transaction.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, to Status) (*Booking, error) {
	var b *Booking
	var err error
	if to == StatusCancelled {
		b, err = s.repo.Cancel(ctx, id)
	} else {
		if err = s.repo.UpdateStatus(ctx, id, to); err == nil {
			b, err = s.repo.GetByID(ctx, id)
		}
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", id.String()).
		Str("status", string(to)).
		Msg("booking status changed")

	if to == StatusCancelled && s.events != nil {
		s.events.PublishBookingCancelled(b)
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Booking, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func generateOrderNumber() string {
	return "PT-" + strings.ToUpper(uuid.New().String()[:8])
}

// formatAmount renders a minor-unit amount as "12.50"
func formatAmount(minor int64) string {
	cents := minor % 100
	if cents < 0 {
		cents = -cents
	}
	return fmt.Sprintf("%d.%02d", minor/100, cents)
}
