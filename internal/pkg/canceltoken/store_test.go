package canceltoken_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrails/pawtrails-api/internal/pkg/canceltoken"
)

func TestStoreWithoutRedis(t *testing.T) {
	store := canceltoken.NewStore(nil, time.Hour)

	if _, err := store.Issue(context.Background(), uuid.New()); !errors.Is(err, canceltoken.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on issue, got %v", err)
	}
	if _, err := store.Consume(context.Background(), "deadbeef"); !errors.Is(err, canceltoken.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on consume, got %v", err)
	}
}
