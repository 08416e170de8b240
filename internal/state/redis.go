package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "state:"

// RedisStore implements the Store interface using Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed attempt store
func NewRedisStore(client *redis.Client) Store {
	return &RedisStore{client: client}
}

// Save stores the attempt with expiration
func (s *RedisStore) Save(ctx context.Context, a Attempt, expiresIn time.Duration) error {
	if a.CSRFToken == "" {
		return ErrEmptyToken
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling attempt: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+a.CSRFToken, data, expiresIn).Err(); err != nil {
		return fmt.Errorf("storing attempt: %w", err)
	}
	return nil
}

// Take atomically reads and deletes the attempt
func (s *RedisStore) Take(ctx context.Context, csrfToken string) (Attempt, error) {
	if csrfToken == "" {
		return Attempt{}, ErrNotFound
	}

	data, err := s.client.GetDel(ctx, keyPrefix+csrfToken).Bytes()
	if errors.Is(err, redis.Nil) {
		return Attempt{}, ErrNotFound
	}
	if err != nil {
		return Attempt{}, fmt.Errorf("getting attempt: %w", err)
	}

	var a Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		return Attempt{}, fmt.Errorf("unmarshaling attempt: %w", err)
	}
	return a, nil
}

// CheckHealth verifies Redis connectivity
func (s *RedisStore) CheckHealth(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
