package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
)

func TestCreateRequiresIdempotencyKey(t *testing.T) {
	svc := booking.NewService(nil, nil, nil, nil, nil, time.Second, "")

	_, err := svc.Create(context.Background(), booking.CreateInput{IdempotencyKey: "   "})
	if !errors.Is(err, booking.ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}
