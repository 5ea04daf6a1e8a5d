package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loanlens/internal/config"
	"loanlens/internal/domain"
	"loanlens/internal/port"
	"loanlens/internal/underwriting"
)

const keyPrefix = "loanlens:analysis:"

// AnalysisCache stores analysis results as JSON strings with a fixed TTL.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ port.AnalysisCache = (*AnalysisCache)(nil)

// NewClient opens a pooled redis client.
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// NewAnalysisCache wraps client. A non-positive ttl keeps entries forever.
func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// Ping checks connectivity.
func (c *AnalysisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *AnalysisCache) Get(ctx context.Context, key string) (*underwriting.AnalysisResult, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("AnalysisCache.Get: %w", err)
	}

	var res underwriting.AnalysisResult
	if err := json.Unmarshal(raw, &res); err != nil {
		// A corrupt entry behaves like a miss and is overwritten on the next Set.
		return nil, domain.ErrCacheMiss
	}
	return &res, nil
}

func (c *AnalysisCache) Set(ctx context.Context, key string, result *underwriting.AnalysisResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("AnalysisCache.Set marshal: %w", err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("AnalysisCache.Set: %w", err)
	}
	return nil
}
