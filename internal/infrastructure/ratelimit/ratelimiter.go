package ratelimit

import (
	"context"
	"time"

	"github.com/docket-dev/docket/internal/shared/logger"
)

// Limits caps requests per sliding window; a zero limit disables that window.
type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
	Used(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// NoopRateLimiter admits everything; it stands in when Redis is not configured.
type NoopRateLimiter struct{}

func (NoopRateLimiter) Allow(context.Context, string, Limits) (bool, error) { return true, nil }

func (NoopRateLimiter) Used(context.Context, string, time.Duration) (int64, error) { return 0, nil }

func (NoopRateLimiter) Reset(context.Context, string) error { return nil }

// FailOpen admits requests when the wrapped limiter errors, so a Redis outage
// never blocks reporters.
type FailOpen struct {
	next   RateLimiter
	logger logger.Interface
}

func NewFailOpen(next RateLimiter, log logger.Interface) *FailOpen {
	return &FailOpen{next: next, logger: log.With("component", "ratelimit")}
}

func (f *FailOpen) Allow(ctx context.Context, key string, limits Limits) (bool, error) {
	allowed, err := f.next.Allow(ctx, key, limits)
	if err != nil {
		f.logger.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
		return true, nil
	}
	return allowed, nil
}

func (f *FailOpen) Used(ctx context.Context, key string, window time.Duration) (int64, error) {
	return f.next.Used(ctx, key, window)
}

func (f *FailOpen) Reset(ctx context.Context, key string) error {
	return f.next.Reset(ctx, key)
}
