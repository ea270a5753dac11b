package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConfirmationStore implements usecase.ConfirmationStore. Pending delete
// confirmations live under an opaque token until consumed or expired.
type ConfirmationStore struct {
	client *redis.Client
	prefix string
}

// NewConfirmationStore creates a new ConfirmationStore.
func NewConfirmationStore(client *redis.Client) *ConfirmationStore {
	return &ConfirmationStore{
		client: client,
		prefix: "finbook:confirm:",
	}
}

// Put stores a pending confirmation payload under token.
func (s *ConfirmationStore) Put(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+token, payload, ttl).Err()
}

// Take atomically consumes a token. Returns nil payload when the token is
// unknown or already expired; a token can only be confirmed once.
func (s *ConfirmationStore) Take(ctx context.Context, token string) ([]byte, error) {
	payload, err := s.client.GetDel(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return payload, nil
}
