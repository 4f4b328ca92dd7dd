package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// report:daily:{YYYY-MM-DD}
	KeyDailyReport = "report:daily:%s"
	// report:analytics:{mode}:{startTs}:{endTs}
	KeyAnalytics = "report:analytics:%s:%s:%s"
)

var ErrMiss = errors.New("cache miss")

// Cache stores JSON-encoded report payloads.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedis(addr string) *RedisCache {
	return &RedisCache{rdb: redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) error {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (c *RedisCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string, any) error              { return ErrMiss }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
