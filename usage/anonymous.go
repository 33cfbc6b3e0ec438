package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// anonymous counters outlive their day so late requests around midnight still see them
const anonymousCounterTTL = 48 * time.Hour

// AnonymousCounter tracks daily uses of identities that have no stored account.
type AnonymousCounter interface {
	Count(ctx context.Context, anonID, date string) (int, error)
	Increment(ctx context.Context, anonID, date string) (int, error)
}

type RedisAnonymousCounter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAnonymousCounter(client *redis.Client) *RedisAnonymousCounter {
	return &RedisAnonymousCounter{client: client, ttl: anonymousCounterTTL}
}

// NewRedisClient connects and pings so a bad REDIS_ADDR fails at startup.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func anonymousKey(anonID, date string) string {
	return fmt.Sprintf("quota:anon:%s:%s", anonID, date)
}

func (c *RedisAnonymousCounter) Count(ctx context.Context, anonID, date string) (int, error) {
	count, err := c.client.Get(ctx, anonymousKey(anonID, date)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read anonymous usage: %w", err)
	}
	return count, nil
}

func (c *RedisAnonymousCounter) Increment(ctx context.Context, anonID, date string) (int, error) {
	key := anonymousKey(anonID, date)
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment anonymous usage: %w", err)
	}
	return int(incr.Val()), nil
}
