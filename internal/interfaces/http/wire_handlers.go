package http

import (
	"github.com/docket-dev/docket/internal/infrastructure/ratelimit"
	"github.com/docket-dev/docket/internal/interfaces/http/handlers"
	ticketHandlers "github.com/docket-dev/docket/internal/interfaces/http/handlers/ticket"
	"github.com/docket-dev/docket/internal/interfaces/http/middleware"
)

// ============================================================
// Section 3: Handlers and middlewares
// ============================================================

func (c *Container) initHandlers() {
	cfg := c.cfg
	log := c.log
	u := c.ucs

	c.authMiddleware = middleware.NewAuthMiddleware(c.svcs.gate, log)
	c.rateLimiter = middleware.NewRateLimiter(c.svcs.limiter, ratelimit.Limits{
		RequestsPerMinute: cfg.RateLimit.ReporterRequestsPerMinute,
		RequestsPerHour:   cfg.RateLimit.ReporterRequestsPerHour,
	}, log)

	c.healthHandler = handlers.NewHealthHandler(c.db)
	c.ticketHandler = ticketHandlers.NewTicketHandler(
		u.createTicketUC,
		u.getTicketUC,
		u.updateTicketUC,
		u.deleteTicketUC,
		u.listTicketsUC,
		u.recordActivityUC,
		u.promoteActivityUC,
		u.getTimelineUC,
		u.pipelineUC,
		u.uploadAttachmentUC,
		u.listAttachmentsUC,
		cfg.Storage.MaxUploadBytes,
		log.Named("ticket"),
	)
}
