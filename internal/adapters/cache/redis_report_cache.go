package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"vendor-ledger-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	reportKeyPrefix  = "report"
	generationKey    = "report:gen"
	defaultReportTTL = 5 * time.Minute
)

// Redis-backed cache for computed sales reports. Keys carry a generation
// counter; invalidation bumps the counter so stale entries become
// unreachable and age out through the TTL.
type RedisReportCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &RedisReportCache{Client: client, TTL: ttl}
}

// Fetch a cached report for the range key; nil on a miss.
func (c *RedisReportCache) Get(ctx context.Context, key string) (*domain.SalesReport, error) {
	if c.Client == nil {
		return nil, errors.New("report cache: client is nil")
	}

	full, err := c.versionedKey(ctx, key)
	if err != nil {
		return nil, err
	}

	raw, err := c.Client.Get(ctx, full).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report cache key=%q: %w", key, err)
	}

	var report domain.SalesReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("get report cache key=%q: decode: %w", key, err)
	}

	return &report, nil
}

// Store a computed report under the range key with the configured TTL.
func (c *RedisReportCache) Put(ctx context.Context, key string, report *domain.SalesReport) error {
	if c.Client == nil {
		return errors.New("report cache: client is nil")
	}

	if report == nil {
		return errors.New("put report cache: report is nil")
	}

	full, err := c.versionedKey(ctx, key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("put report cache key=%q: encode: %w", key, err)
	}

	if err := c.Client.Set(ctx, full, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put report cache key=%q: %w", key, err)
	}

	return nil
}

// Drop every cached report by bumping the generation counter.
func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	if c.Client == nil {
		return errors.New("report cache: client is nil")
	}

	if err := c.Client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("invalidate report cache: %w", err)
	}

	return nil
}

func (c *RedisReportCache) versionedKey(ctx context.Context, key string) (string, error) {
	gen, err := c.Client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("report cache generation: %w", err)
	}
	return fmt.Sprintf("%s:%d:%s", reportKeyPrefix, gen, key), nil
}
