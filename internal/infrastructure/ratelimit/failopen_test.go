package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docket-dev/docket/internal/shared/logger"
)

type erroringLimiter struct{ NoopRateLimiter }

func (erroringLimiter) Allow(context.Context, string, Limits) (bool, error) {
	return false, errors.New("connection refused")
}

type denyingLimiter struct{ NoopRateLimiter }

func (denyingLimiter) Allow(context.Context, string, Limits) (bool, error) { return false, nil }

func TestFailOpen(t *testing.T) {
	ctx := context.Background()
	limits := Limits{RequestsPerMinute: 1}

	allowed, err := NewFailOpen(erroringLimiter{}, logger.NewNopLogger()).Allow(ctx, "k", limits)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = NewFailOpen(denyingLimiter{}, logger.NewNopLogger()).Allow(ctx, "k", limits)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestFailOpen_UnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := NewFailOpen(NewRedisRateLimiter(client), logger.NewNopLogger())
	allowed, err := limiter.Allow(context.Background(), "reporter:user-1", Limits{RequestsPerMinute: 1})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNoopRateLimiter(t *testing.T) {
	var l RateLimiter = NoopRateLimiter{}
	for i := 0; i < 100; i++ {
		ok, err := l.Allow(context.Background(), "k", Limits{RequestsPerMinute: 1})
		require.NoError(t, err)
		require.True(t, ok)
	}
}
