package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docket-dev/docket/internal/infrastructure/auth"
	"github.com/docket-dev/docket/internal/infrastructure/config"
	"github.com/docket-dev/docket/internal/infrastructure/permission"
	"github.com/docket-dev/docket/internal/infrastructure/ratelimit"
	"github.com/docket-dev/docket/internal/infrastructure/storage"
	"github.com/docket-dev/docket/internal/shared/db"
	"github.com/docket-dev/docket/internal/shared/logger"
	"github.com/docket-dev/docket/internal/shared/services/markdown"
)

// services holds infrastructure services shared by the use cases and middlewares.
type infraServices struct {
	enforcer       *permission.Enforcer
	txMgr          *db.TransactionManager
	blobs          *storage.BlobStore
	markdown       markdown.MarkdownService
	reporterTokens *auth.ReporterTokenService
	gate           *auth.Gate
	limiter        ratelimit.RateLimiter
}

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Services
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db)

	enforcer, err := permission.NewEnforcer(c.db, log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}

	blobs, err := storage.NewLocalBlobStore(cfg.Storage.AttachmentsDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("failed to initialize attachment storage: %w", err)
	}

	reporterTokens := auth.NewReporterTokenService(cfg.Auth.ReporterTokenSecret)

	c.svcs = &infraServices{
		enforcer:       enforcer,
		txMgr:          db.NewTransactionManager(c.db),
		blobs:          blobs,
		markdown:       markdown.NewMarkdownService(),
		reporterTokens: reporterTokens,
		gate:           auth.NewGate(cfg.Auth, cfg.Server, reporterTokens),
		limiter:        c.newRateLimiter(),
	}
	return nil
}

// newRateLimiter uses Redis when configured. Without Redis, reporters are not limited.
func (c *Container) newRateLimiter() ratelimit.RateLimiter {
	if !c.cfg.Redis.Enabled() {
		c.log.Infow("redis not configured, reporter rate limiting disabled")
		return ratelimit.NoopRateLimiter{}
	}

	c.redis = initRedis(c.cfg, c.log)
	return ratelimit.NewFailOpen(ratelimit.NewRedisRateLimiter(c.redis), c.log)
}

// initRedis creates the Redis client. A failed ping is logged and tolerated;
// the fail-open limiter lets requests through until Redis comes back.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to Redis", "addr", cfg.Redis.GetAddr(), "error", err)
	} else {
		log.Infow("Redis connection established successfully")
	}

	return redisClient
}
