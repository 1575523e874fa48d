package ports

import (
	"context"
	"time"
)

// CacheStore is the shared key-value store behind the cache-test routes.
// Keys are passed without the namespace prefix; implementations add it.
type CacheStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get reports found=false when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Delete reports whether a key was actually removed.
	Delete(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
