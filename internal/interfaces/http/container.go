package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/infrastructure/config"
	"github.com/docket-dev/docket/internal/interfaces/http/handlers"
	ticketHandlers "github.com/docket-dev/docket/internal/interfaces/http/handlers/ticket"
	"github.com/docket-dev/docket/internal/interfaces/http/middleware"
	"github.com/docket-dev/docket/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and
// handlers, wires them together and releases them in Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	svcs  *infraServices
	ucs   *allUseCases

	// Handlers
	healthHandler *handlers.HealthHandler
	ticketHandler *ticketHandlers.TicketHandler

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Repositories, Services
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Ticket use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

// Shutdown releases connections held by the container.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
