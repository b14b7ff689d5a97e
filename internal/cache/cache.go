// Package cache stores rendered API responses in Redis or, when no Redis
// address is configured, in process memory.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// ResponsePrefix namespaces every cached API response.
const ResponsePrefix = "cache:resp:"

// Store is a byte cache with prefix invalidation.
//
// Every DeletePrefix advances a generation counter. A reader that captured
// Generation before computing a value stores it with SetIfGeneration, which
// writes nothing once an invalidation has happened in between.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Generation(ctx context.Context) (int64, error)
	SetIfGeneration(ctx context.Context, key string, val []byte, ttl time.Duration, gen int64) (bool, error)
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// ResponseKey derives a response cache key from the request path and raw
// query. Hashing keeps keys short regardless of query length.
func ResponseKey(path, rawQuery string) string {
	sum := sha1.Sum([]byte("GET|" + path + "|" + rawQuery))
	return ResponsePrefix + hex.EncodeToString(sum[:])
}
