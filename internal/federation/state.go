package federation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const statePrefix = "signet:oauth:state:"

// StateStore issues and redeems one-shot OAuth state values backed by
// Redis with a TTL.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore constructs a StateStore.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{client: client, ttl: ttl}
}

// Issue stores and returns a fresh state value.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, statePrefix+state, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

// Consume redeems a state value. Unknown, expired, or reused states
// return false.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	deleted, err := s.client.Del(ctx, statePrefix+state).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}
