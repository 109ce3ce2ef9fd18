package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// RedisCache кеш поверх Redis. Все обращения идут через circuit breaker,
// ошибки Redis превращаются в промах кеша.
type RedisCache struct {
	logger    *slog.Logger
	client    redis.UniversalClient
	breaker   *gobreaker.CircuitBreaker
	ttl       time.Duration
	opTimeout time.Duration
}

func NewRedisCache(logger *slog.Logger, client redis.UniversalClient, ttl, opTimeout time.Duration) *RedisCache {
	logger = logger.With(slog.String("cache", "redis"))

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "redis-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &RedisCache{
		logger:    logger,
		client:    client,
		breaker:   breaker,
		ttl:       ttl,
		opTimeout: opTimeout,
	}
}

func (c *RedisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	data, err := utils.ExecuteWithBreaker(c.breaker, func() ([]byte, error) {
		return c.client.Get(ctx, key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Debug("failed to get key", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	_, err := utils.ExecuteWithBreaker(c.breaker, func() (string, error) {
		return c.client.Set(ctx, key, value, c.ttl).Result()
	})
	if err != nil {
		c.logger.Debug("failed to set key", slog.String("key", key), slog.Any("error", err))
	}
}

func (c *RedisCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	_, err := utils.ExecuteWithBreaker(c.breaker, func() (int64, error) {
		return c.client.Del(ctx, key).Result()
	})
	if err != nil {
		c.logger.Warn("failed to delete key", slog.String("key", key), slog.Any("error", err))
	}
}
