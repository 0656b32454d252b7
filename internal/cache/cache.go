// Package cache provides a Redis-backed result cache for expensive pipeline
// operations. A missing or unreachable Redis is never fatal: every operation
// degrades to a miss and the caller recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newsscope/newswatch/internal/config"
)

// Operation prefixes. Each class of result lives under its own key prefix so
// TTLs and invalidation stay independent.
const (
	PrefixSentiment = "sentiment"
	PrefixTranslate = "translate"
	PrefixClassify  = "classify"
	PrefixNER       = "ner"
	PrefixSchemes   = "schemes"
)

const (
	defaultTTL = 24 * time.Hour
	schemesTTL = 7 * 24 * time.Hour
)

// Cache wraps a Redis client. A nil Cache or a Cache with a nil client is
// valid and behaves as a permanent miss.
type Cache struct {
	client *redis.Client

	// downOnce limits the "cache unreachable" warning to once per process.
	downOnce sync.Once
}

// New connects to Redis. When the cache is disabled or the server is
// unreachable, a degraded (miss-only) cache is returned rather than an error.
func New(ctx context.Context, cfg config.CacheConfig) *Cache {
	if !cfg.Enabled {
		slog.Info("cache: disabled by configuration")
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("cache: redis unreachable, running without cache", "addr", cfg.Addr, "err", err)
		return &Cache{}
	}

	slog.Info("cache: connected", "addr", cfg.Addr)
	return &Cache{client: client}
}

// NewWithClient wraps an existing Redis client. Used by tests.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis backend is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key builds the cache key for an operation over the given text: the
// operation prefix plus a SHA-256 fingerprint of the input.
func Key(prefix, text string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// ttlFor returns the TTL for an operation prefix. Scheme detection results
// are far more stable than model outputs and keep a week-long TTL.
func ttlFor(prefix string) time.Duration {
	if prefix == PrefixSchemes {
		return schemesTTL
	}
	return defaultTTL
}

// GetJSON looks up the cached value for (prefix, text) and unmarshals it into
// dst. Returns false on miss, cache-down, or decode failure.
func (c *Cache) GetJSON(ctx context.Context, prefix, text string, dst any) bool {
	if !c.Enabled() {
		return false
	}

	raw, err := c.client.Get(ctx, Key(prefix, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.warnDown(err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Debug("cache: stale entry dropped", "prefix", prefix, "err", err)
		return false
	}
	return true
}

// SetJSON stores the value for (prefix, text) with the operation's TTL.
// Failures are logged and swallowed.
func (c *Cache) SetJSON(ctx context.Context, prefix, text string, value any) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		slog.Debug("cache: marshal failed", "prefix", prefix, "err", err)
		return
	}
	if err := c.client.Set(ctx, Key(prefix, text), raw, ttlFor(prefix)).Err(); err != nil {
		c.warnDown(err)
	}
}

// GetString looks up a cached plain-string value. Returns ("", false) on miss.
func (c *Cache) GetString(ctx context.Context, prefix, text string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}

	val, err := c.client.Get(ctx, Key(prefix, text)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.warnDown(err)
		return "", false
	}
	return val, true
}

// SetString stores a plain-string value with the operation's TTL.
func (c *Cache) SetString(ctx context.Context, prefix, text, value string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, Key(prefix, text), value, ttlFor(prefix)).Err(); err != nil {
		c.warnDown(err)
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) warnDown(err error) {
	c.downOnce.Do(func() {
		slog.Warn("cache: operation failed, degrading to direct computation", "err", err)
	})
}
