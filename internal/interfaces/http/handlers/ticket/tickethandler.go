package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/application/ticket/usecases"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
	"github.com/docket-dev/docket/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC     usecases.CreateTicketExecutor
	getTicketUC        usecases.GetTicketExecutor
	updateTicketUC     usecases.UpdateTicketExecutor
	deleteTicketUC     usecases.DeleteTicketExecutor
	listTicketsUC      usecases.ListTicketsExecutor
	recordActivityUC   usecases.RecordActivityExecutor
	promoteActivityUC  usecases.PromoteActivityExecutor
	getTimelineUC      usecases.GetTimelineExecutor
	pipelineUC         usecases.PipelineExecutor
	uploadAttachmentUC usecases.UploadAttachmentExecutor
	listAttachmentsUC  usecases.ListAttachmentsExecutor
	maxUploadBytes     int64
	logger             logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	updateTicketUC usecases.UpdateTicketExecutor,
	deleteTicketUC usecases.DeleteTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	recordActivityUC usecases.RecordActivityExecutor,
	promoteActivityUC usecases.PromoteActivityExecutor,
	getTimelineUC usecases.GetTimelineExecutor,
	pipelineUC usecases.PipelineExecutor,
	uploadAttachmentUC usecases.UploadAttachmentExecutor,
	listAttachmentsUC usecases.ListAttachmentsExecutor,
	maxUploadBytes int64,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:     createTicketUC,
		getTicketUC:        getTicketUC,
		updateTicketUC:     updateTicketUC,
		deleteTicketUC:     deleteTicketUC,
		listTicketsUC:      listTicketsUC,
		recordActivityUC:   recordActivityUC,
		promoteActivityUC:  promoteActivityUC,
		getTimelineUC:      getTimelineUC,
		pipelineUC:         pipelineUC,
		uploadAttachmentUC: uploadAttachmentUC,
		listAttachmentsUC:  listAttachmentsUC,
		maxUploadBytes:     maxUploadBytes,
		logger:             logger,
	}
}

// CreateTicket handles POST /tickets
// @Summary Create ticket
// @Description Create a ticket. Replaying a client_reference_id returns the existing ticket with 200.
// @Tags Tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateTicketRequest true "Ticket"
// @Success 201 {object} utils.APIResponse{data=dto.TicketDTO}
// @Success 200 {object} utils.APIResponse{data=dto.TicketDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !result.Created {
		utils.SuccessResponse(c, http.StatusOK, "Ticket already exists", result.Ticket)
		return
	}
	utils.CreatedResponse(c, result.Ticket, "Ticket created successfully")
}

// GetTicket handles GET /tickets/:id
// @Summary Get ticket
// @Tags Tickets
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=dto.TicketDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		Actor:    actor,
		TicketID: ticketID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// ListTickets handles GET /tickets
// @Summary List tickets
// @Tags Tickets
// @Produce json
// @Security Bearer
// @Param project_id query string false "Project"
// @Param status query string false "Comma separated statuses"
// @Param ticket_type query string false "Comma separated types"
// @Param priority query string false "Comma separated priorities"
// @Param assignee query string false "Assignee"
// @Param reporter_id query string false "Reporter"
// @Param needs_followup query bool false "Follow-up flag"
// @Param search query string false "Title and description search"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param sort_by query string false "created_at, updated_at, priority, work_priority or ticket_number"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), parseListTicketsQuery(c, actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// UpdateTicket handles PATCH /tickets/:id
// @Summary Update ticket fields
// @Description Status is not writable here; use the status activity action.
// @Tags Tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param request body UpdateTicketRequest true "Changed fields"
// @Success 200 {object} utils.APIResponse{data=dto.TicketDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [patch]
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update ticket", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}
	changes, err := req.ToChanges()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), usecases.UpdateTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
		Changes:  changes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result.Ticket)
}

// DeleteTicket handles DELETE /tickets/:id
// @Summary Soft-delete ticket
// @Tags Tickets
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 204
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func currentActor(c *gin.Context) (authorization.Actor, error) {
	actor, ok := authorization.GetActor(c)
	if !ok {
		return authorization.Actor{}, errors.NewUnauthorizedError("authentication required")
	}
	return actor, nil
}

func actorAndTicketID(c *gin.Context) (authorization.Actor, uint, error) {
	actor, err := currentActor(c)
	if err != nil {
		return actor, 0, err
	}
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	return actor, ticketID, err
}
