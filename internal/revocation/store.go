// Package revocation records refresh tokens that were invalidated before
// their natural expiry. Entries are keyed by the token string and carry a
// TTL equal to the token's remaining validity, so the store never outlives
// the tokens it tracks and needs no delete operation.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:"

// ErrUnavailable wraps redis transport failures; the HTTP boundary maps
// it to 503 so callers can retry.
var ErrUnavailable = errors.New("revocation store unavailable")

type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Revoke(ctx context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past natural expiry; nothing worth persisting.
		return nil
	}

	if err := s.client.Set(ctx, keyPrefix+tokenString, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

func (s *Store) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+tokenString).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return true, nil
}
