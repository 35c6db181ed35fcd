package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/infrastructure/ratelimit"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
	"github.com/docket-dev/docket/internal/shared/utils"
)

// RateLimiter caps write requests per reporter. Staff requests pass through.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	limits  ratelimit.Limits
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, limits ratelimit.Limits, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		limits:  limits,
		logger:  logger,
	}
}

// LimitReporters must run after the auth middleware.
func (rl *RateLimiter) LimitReporters() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorization.GetActor(c)
		if !ok || !actor.IsReporter() {
			c.Next()
			return
		}

		key := "reporter:" + actor.ID
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.limits)
		if err != nil {
			rl.logger.Warnw("rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}
		if !allowed {
			rl.logger.Infow("reporter rate limited", "reporter_id", actor.ID, "path", c.Request.URL.Path)
			utils.ErrorResponseWithError(c, errors.NewTooManyRequestsError("rate limit exceeded, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
