package canceltoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound    = errors.New("cancellation token not found or already used")
	ErrUnavailable = errors.New("token store unavailable")
)

const keyPrefix = "cancel_token:"

// Store issues and consumes single-use cancellation tokens backed by Redis.
// Tokens let customers request a cancellation without an account; each token
// resolves to a booking id exactly once.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore creates a token store. A nil client disables token issuance
// (order-number lookup still works without it).
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: client, ttl: ttl}
}

// Issue creates a single-use token for the booking and stores it with a TTL.
func (s *Store) Issue(ctx context.Context, bookingID uuid.UUID) (string, error) {
	if s.redis == nil {
		return "", ErrUnavailable
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	if err := s.redis.Set(ctx, keyPrefix+token, bookingID.String(), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume resolves a token to its booking id and deletes it atomically.
func (s *Store) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	if s.redis == nil {
		return uuid.Nil, ErrUnavailable
	}

	val, err := s.redis.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return id, nil
}
