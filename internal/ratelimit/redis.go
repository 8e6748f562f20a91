package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// RedisCounter implements CounterStore on a Redis sorted set per client.
// Scores are millisecond timestamps; members carry a random suffix so two
// requests landing on the same millisecond stay distinct entries.
type RedisCounter struct {
	client *redis.Client
}

var _ CounterStore = (*RedisCounter)(nil)

// NewRedisCounter builds a counter from a Redis URL. The underlying
// connection is established lazily on first use, so an unreachable Redis at
// startup only shows up as per-call failures.
func NewRedisCounter(url string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisCounter{client: redis.NewClient(opts)}, nil
}

func (c *RedisCounter) Close() error {
	return c.client.Close()
}

func (c *RedisCounter) RemoveOlderThan(ctx context.Context, key string, cutoff time.Time) error {
	max := strconv.FormatInt(cutoff.UnixMilli(), 10)
	return c.client.ZRemRangeByScore(ctx, key, "0", max).Err()
}

func (c *RedisCounter) Count(ctx context.Context, key string) (int64, error) {
	return c.client.ZCard(ctx, key).Result()
}

func (c *RedisCounter) Insert(ctx context.Context, key string, ts time.Time) error {
	ms := ts.UnixMilli()
	member := fmt.Sprintf("%d-%s", ms, uuid.NewString())
	return c.client.ZAdd(ctx, key, redis.Z{Score: float64(ms), Member: member}).Err()
}

func (c *RedisCounter) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}
