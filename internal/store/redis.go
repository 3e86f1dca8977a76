package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document under its key as a plain Redis string.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load decodes the document under key into dest. Absent or undecodable
// documents leave dest untouched.
func (s *RedisStore) Load(ctx context.Context, key string, dest any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load document %q: %w", key, err)
	}
	// Corrupt documents read as empty collections.
	_ = json.Unmarshal(raw, dest)
	return nil
}

// Save marshals value and overwrites the document unconditionally.
func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save document %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete document %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
