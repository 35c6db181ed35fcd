package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/docket-dev/docket/internal/interfaces/http/handlers/ticket"
	"github.com/docket-dev/docket/internal/interfaces/http/middleware"
	"github.com/docket-dev/docket/internal/shared/authorization"
)

type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	limit := config.RateLimiter.LimitReporters()

	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireActor())
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts

		tickets.POST("",
			limit,
			config.TicketHandler.CreateTicket)
		tickets.GET("",
			config.TicketHandler.ListTickets)

		// Pipeline views are staff-only
		pipeline := tickets.Group("", authorization.RequireStaff())
		pipeline.GET("/work-queue", config.TicketHandler.WorkQueue)
		pipeline.GET("/rework", config.TicketHandler.Rework)
		pipeline.GET("/followups", config.TicketHandler.FollowUps)
		pipeline.GET("/triage-batch", config.TicketHandler.TriageBatch)
		pipeline.GET("/stats", config.TicketHandler.Stats)

		tickets.POST("/:id/activity",
			limit,
			config.TicketHandler.RecordActivity)
		tickets.POST("/:id/activity/:activityId/promote",
			authorization.RequireStaff(),
			config.TicketHandler.PromoteActivity)
		tickets.GET("/:id/timeline",
			config.TicketHandler.GetTimeline)
		tickets.POST("/:id/attachments",
			limit,
			config.TicketHandler.UploadAttachment)
		tickets.GET("/:id/attachments",
			config.TicketHandler.ListAttachments)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id",
			config.TicketHandler.GetTicket)
		tickets.PATCH("/:id",
			config.TicketHandler.UpdateTicket)
		tickets.DELETE("/:id",
			authorization.RequireStaff(),
			config.TicketHandler.DeleteTicket)
	}
}
