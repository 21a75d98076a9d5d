// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// transform.go provides a Valkey-backed cache for restyled HTML. A rewrite
// call costs tens of seconds of model time, and the result for a given
// (document, aesthetic) pair is stable enough to reuse for a short TTL.
// The cache is optional: a nil *TransformCache disables it and every
// method degrades to a no-op.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// transformKeyPrefix is the Valkey key prefix for cached rewrites.
	transformKeyPrefix = "transform:"

	// DefaultTransformTTL is how long a restyled document stays cached.
	DefaultTransformTTL = 15 * time.Minute
)

// TransformCache stores restyled HTML documents in Valkey.
type TransformCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTransformCache creates a transform cache backed by the given Valkey client.
func NewTransformCache(client *redis.Client, ttl time.Duration) *TransformCache {
	if ttl == 0 {
		ttl = DefaultTransformTTL
	}
	return &TransformCache{client: client, ttl: ttl}
}

// Key derives the cache key for a (document, aesthetic) pair.
func Key(html, aesthetic string) string {
	h := sha256.New()
	h.Write([]byte(html))
	h.Write([]byte{0})
	h.Write([]byte(aesthetic))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached rewrite. Returns false on miss or when the cache
// is disabled.
func (tc *TransformCache) Get(ctx context.Context, key string) (string, bool) {
	if tc == nil {
		return "", false
	}

	val, err := tc.client.Get(ctx, transformKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("transform cache get error", "key", key, "error", err)
		return "", false
	}
	slog.Debug("transform cache hit", "key", key)
	return val, true
}

// Set stores a rewrite result with the configured TTL.
func (tc *TransformCache) Set(ctx context.Context, key, html string) {
	if tc == nil {
		return
	}

	if err := tc.client.Set(ctx, transformKeyPrefix+key, html, tc.ttl).Err(); err != nil {
		slog.Warn("transform cache set error", "key", key, "error", err)
	}
}
