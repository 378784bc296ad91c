package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type ClientConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

func NewRedisClient(config *ClientConfig) *redis.Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})
}

// RedisLimiter counts requests per key in fixed windows.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: "ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	redisKey := l.prefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("increment %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}

	decision := Decision{Allowed: count <= int64(l.limit), Limit: l.limit}
	if decision.Allowed {
		decision.Remaining = l.limit - int(count)
		return decision, nil
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ttl %s: %w", redisKey, err)
	}
	if ttl < 0 {
		// A key without expiry would block forever; restart its window.
		if err := l.client.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("expire %s: %w", redisKey, err)
		}
		ttl = l.window
	}
	decision.RetryAfter = ttl
	return decision, nil
}
