package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every cache-test key.
const KeyPrefix = "test:"

const scanBatch = 100

// CacheStore implements ports.CacheStore on a shared Redis instance.
type CacheStore struct {
	client redis.UniversalClient
}

// NewCacheStore wraps the given Redis client.
func NewCacheStore(client redis.UniversalClient) *CacheStore {
	return &CacheStore{client: client}
}

func (s *CacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, KeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (s *CacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return val, true, nil
}

func (s *CacheStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, KeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete: %w", err)
	}
	return n > 0, nil
}

// Keys lists every namespaced key with the prefix stripped. It walks the
// keyspace with SCAN so a large instance is not blocked.
func (s *CacheStore) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	iter := s.client.Scan(ctx, 0, KeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), KeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cache scan: %w", err)
	}
	return keys, nil
}

func (s *CacheStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
