package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// StateStore implements ports.StateStore: one-time values behind random tokens.
type StateStore struct {
	client *goredis.Client
	prefix string
}

// NewStateStore creates a Redis-backed one-time state store.
func NewStateStore(client *goredis.Client) *StateStore {
	return &StateStore{
		client: client,
		prefix: "state:",
	}
}

// Put stores value under a fresh token with the given TTL.
func (s *StateStore) Put(ctx context.Context, value string, ttl time.Duration) (string, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	ok, err := s.client.SetNX(ctx, s.prefix+token, value, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("redis state put: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("redis state put: token collision")
	}
	return token, nil
}

// Take atomically reads and deletes the value, so a token can only be redeemed once.
func (s *StateStore) Take(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	val, err := s.client.GetDel(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis state take: %w", err)
	}
	return val, true, nil
}

// IdempotencyCache implements ports.IdempotencyCache using Redis.
type IdempotencyCache struct {
	client *goredis.Client
	prefix string
}

// NewIdempotencyCache creates a new Redis-backed idempotency cache.
func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{
		client: client,
		prefix: "idempotency:",
	}
}

// Get retrieves a cached response by idempotency key.
// Returns nil, nil if the key does not exist.
func (c *IdempotencyCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}
	return val, nil
}

// Set caches a response. An existing entry is kept so the first result wins.
func (c *IdempotencyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.SetNX(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}
