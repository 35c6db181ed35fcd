package ticket

import (
	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/application/ticket/usecases"
	"github.com/docket-dev/docket/internal/shared/utils"
)

type pipelineListFunc func(c *gin.Context, query usecases.PipelineQuery) ([]*dto.TicketDTO, error)

// WorkQueue handles GET /tickets/work-queue
// @Summary Approved work, highest work priority first
// @Tags Pipeline
// @Produce json
// @Security Bearer
// @Param project_id query string false "Project"
// @Success 200 {object} utils.APIResponse{data=[]dto.TicketDTO}
// @Router /tickets/work-queue [get]
func (h *TicketHandler) WorkQueue(c *gin.Context) {
	h.pipelineList(c, func(c *gin.Context, q usecases.PipelineQuery) ([]*dto.TicketDTO, error) {
		return h.pipelineUC.WorkQueue(c.Request.Context(), q)
	})
}

// Rework handles GET /tickets/rework
// @Summary Tickets whose last test failed
// @Tags Pipeline
// @Produce json
// @Security Bearer
// @Param project_id query string false "Project"
// @Success 200 {object} utils.APIResponse{data=[]dto.TicketDTO}
// @Router /tickets/rework [get]
func (h *TicketHandler) Rework(c *gin.Context) {
	h.pipelineList(c, func(c *gin.Context, q usecases.PipelineQuery) ([]*dto.TicketDTO, error) {
		return h.pipelineUC.Rework(c.Request.Context(), q)
	})
}

// FollowUps handles GET /tickets/followups
// @Summary Follow-ups that are due
// @Tags Pipeline
// @Produce json
// @Security Bearer
// @Param project_id query string false "Project"
// @Success 200 {object} utils.APIResponse{data=[]dto.TicketDTO}
// @Router /tickets/followups [get]
func (h *TicketHandler) FollowUps(c *gin.Context) {
	h.pipelineList(c, func(c *gin.Context, q usecases.PipelineQuery) ([]*dto.TicketDTO, error) {
		return h.pipelineUC.FollowUps(c.Request.Context(), q)
	})
}

// TriageBatch handles GET /tickets/triage-batch
// @Summary Oldest untriaged tickets
// @Tags Pipeline
// @Produce json
// @Security Bearer
// @Param project_id query string false "Project"
// @Param batch_size query int false "Batch size" default(3)
// @Success 200 {object} utils.APIResponse{data=[]dto.TicketDTO}
// @Failure 400 {object} utils.APIResponse
// @Router /tickets/triage-batch [get]
func (h *TicketHandler) TriageBatch(c *gin.Context) {
	h.pipelineList(c, func(c *gin.Context, q usecases.PipelineQuery) ([]*dto.TicketDTO, error) {
		return h.pipelineUC.TriageBatch(c.Request.Context(), q)
	})
}

// Stats handles GET /tickets/stats
// @Summary Pipeline counts and breakdowns
// @Tags Pipeline
// @Produce json
// @Security Bearer
// @Param project_id query string false "Project"
// @Success 200 {object} utils.APIResponse{data=dto.StatsDTO}
// @Router /tickets/stats [get]
func (h *TicketHandler) Stats(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	query, err := parsePipelineQuery(c, actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	stats, err := h.pipelineUC.Stats(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, stats)
}

func (h *TicketHandler) pipelineList(c *gin.Context, fetch pipelineListFunc) {
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	query, err := parsePipelineQuery(c, actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	tickets, err := fetch(c, query)
	if err != nil {
		h.logger.Errorw("pipeline query failed", "path", c.FullPath(), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, tickets)
}
