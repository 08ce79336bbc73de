// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go caches rendered feed results in Valkey. Entries are keyed by a
// generation number; Invalidate bumps the generation so every cached
// result becomes unreachable at once and ages out by TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached feed results.
	feedKeyPrefix = "feed:"

	// feedVersionKey holds the current feed generation.
	feedVersionKey = feedKeyPrefix + "version"

	// DefaultFeedTTL is how long a feed result stays cached.
	DefaultFeedTTL = time.Minute
)

// FeedCache stores serialized feed results in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a new feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

func (fc *FeedCache) version(ctx context.Context) (int64, error) {
	v, err := fc.client.Get(ctx, feedVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func entryKey(version int64, key string) string {
	return fmt.Sprintf("%sv%d:%s", feedKeyPrefix, version, key)
}

// Get retrieves a cached result for key in the current generation. It also
// returns the generation it read, which the caller passes to Set once it
// has computed a fresh result. The generation is -1 when it could not be
// read.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, int64, bool) {
	v, err := fc.version(ctx)
	if err != nil {
		slog.Warn("feed cache version error", "error", err)
		return nil, -1, false
	}

	val, err := fc.client.Get(ctx, entryKey(v, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, v, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, v, false
	}
	slog.Debug("feed cache hit", "key", key, "version", v)
	return val, v, true
}

// Set stores a result for key in generation version, the one Get returned
// before the result was computed. A result computed before an Invalidate
// lands in the old generation and is never served.
func (fc *FeedCache) Set(ctx context.Context, version int64, key string, data []byte) {
	if version < 0 {
		return
	}
	if err := fc.client.Set(ctx, entryKey(version, key), data, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// Invalidate starts a new generation, hiding every cached result.
func (fc *FeedCache) Invalidate(ctx context.Context) {
	v, err := fc.client.Incr(ctx, feedVersionKey).Result()
	if err != nil {
		slog.Warn("feed cache invalidate error", "error", err)
		return
	}
	slog.Debug("feed cache invalidated", "version", v)
}
