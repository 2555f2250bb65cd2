// Package cache holds short-lived key/value state such as spent
// password-reset tokens. Redis is used when configured, otherwise an
// in-process map.
package cache

import (
	"context"
	"time"
)

// Store is the key/value contract shared by the Redis and memory adapters.
type Store interface {
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
