// Package rediscache implements a read-through cache of resolved short codes
// on top of Redis. Mappings are immutable, so entries never need invalidation
// and only expire by TTL.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YogeshBarai/url-shortener/internal/config"
	"github.com/YogeshBarai/url-shortener/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the initial ping.
const connectTimeout = 5 * time.Second

type Cache struct {
	rdb     *redis.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	cfg     config.Redis
}

// New connects to Redis and verifies the connection. m may be nil.
func New(ctx context.Context, logger *slog.Logger, cfg config.Redis, m *metrics.Metrics) (*Cache, error) {
	const op = "adapter.repository.rediscache.New"

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%s: missing redis address", op)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: failed to ping redis: %w", op, err)
	}

	return &Cache{
		rdb:     rdb,
		logger:  logger,
		metrics: m,
		cfg:     cfg,
	}, nil
}

// Get returns the cached original URL. Redis failures are logged and
// reported as a miss so lookups fall back to the database.
func (c *Cache) Get(ctx context.Context, shortCode string) (string, bool) {
	val, err := c.rdb.Get(ctx, c.key(shortCode)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to read from cache", slog.String("short_code", shortCode), slog.Any("err", err))
		}
		if c.metrics != nil {
			c.metrics.CacheMisses.Inc()
		}
		return "", false
	}

	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}

	return val, true
}

func (c *Cache) Set(ctx context.Context, shortCode, originalURL string) {
	if err := c.rdb.Set(ctx, c.key(shortCode), originalURL, c.cfg.TTL).Err(); err != nil {
		c.logger.Warn("failed to write to cache", slog.String("short_code", shortCode), slog.Any("err", err))
	}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func (c *Cache) key(shortCode string) string {
	return fmt.Sprintf("%s:%s", c.cfg.Prefix, shortCode)
}
