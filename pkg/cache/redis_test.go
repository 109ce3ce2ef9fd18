package cache

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestRedisCache_BreakerOpensOnUnavailableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewRedisCache(logger, client, time.Minute, 200*time.Millisecond)

	for range 5 {
		_, ok := c.Get("analytics:owner-1")
		assert.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())

	// открытый breaker отвечает промахом, не обращаясь к Redis
	start := time.Now()
	_, ok := c.Get("analytics:owner-1")
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		c.Set("analytics:owner-1", []byte("x"))
		c.Delete("analytics:owner-1")
	})
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRedisCache_MissIsNotAFailure(t *testing.T) {
	c := NewRedisCache(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, time.Minute, time.Second)

	for range 10 {
		_, err := c.breaker.Execute(func() (any, error) { return nil, redis.Nil })
		assert.ErrorIs(t, err, redis.Nil)
	}
	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
}
