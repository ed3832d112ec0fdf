// internal/common/cache/cache.go

// Package cache memoizes computed estimate results in Redis. Both
// estimation engines are deterministic, so a result can be replayed for
// an identical input as long as the rate catalog it was computed with is
// still the active one. The catalog version is part of every key, so a
// catalog reload invalidates naturally without any explicit flush.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultCache wraps a Redis client with estimate-shaped Get/Set. A
// failing cache must never fail an estimate, so callers treat every
// returned error as a miss and recompute.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key builds the cache key for one engine invocation. The input must be
// a struct so its JSON encoding is deterministic.
func Key(engine, catalogVersion string, input interface{}) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal cache input: %w", err)
	}
	sum := sha256.Sum256(append([]byte(engine+"|"+catalogVersion+"|"), payload...))
	return "estimate:" + engine + ":" + hex.EncodeToString(sum[:]), nil
}

// Lookup reads the entry under key into out. The bool reports whether a
// usable entry was found. An entry that no longer unmarshals is reported
// as a miss along with the error.
func (c *ResultCache) Lookup(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("unmarshal cached result: %w", err)
	}
	return true, nil
}

// Store writes the result under key with the configured TTL.
func (c *ResultCache) Store(ctx context.Context, key string, result interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}
