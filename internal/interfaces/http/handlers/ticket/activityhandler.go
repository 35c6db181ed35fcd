package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/application/ticket/usecases"
	"github.com/docket-dev/docket/internal/shared/utils"
)

// RecordActivity handles POST /tickets/:id/activity
// @Summary Record activity
// @Description Dispatch one workflow action (comment, message, test_result, status, approve, reject, resolve, triage, assign, followup).
// @Tags Activity
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param request body ActivityRequest true "Action and its fields"
// @Success 201 {object} utils.APIResponse{data=usecases.RecordActivityResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/activity [post]
func (h *TicketHandler) RecordActivity(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for activity", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.recordActivityUC.Execute(c.Request.Context(), req.ToCommand(actor, ticketID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Activity recorded")
}

// GetTimeline handles GET /tickets/:id/timeline
// @Summary Get ticket timeline
// @Description format=agent returns a plain-text rendering for coding agents (staff only).
// @Tags Activity
// @Produce json
// @Produce plain
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param reporter_id query string false "Render the reporter view for this reporter"
// @Param visibility query string false "internal or user_visible"
// @Param activity_type query string false "Comma separated activity types"
// @Param format query string false "agent"
// @Success 200 {object} utils.APIResponse{data=[]dto.ActivityDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/timeline [get]
func (h *TicketHandler) GetTimeline(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query := parseTimelineQuery(c, actor, ticketID)

	if c.Query("format") == "agent" {
		text, err := h.getTimelineUC.RenderForAgent(c.Request.Context(), query)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		c.String(http.StatusOK, text)
		return
	}

	entries, err := h.getTimelineUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, entries)
}

// PromoteActivity handles POST /tickets/:id/activity/:activityId/promote
// @Summary Approve a held message
// @Description Makes an approval-gated agent message visible to the reporter.
// @Tags Activity
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param activityId path int true "Activity ID"
// @Success 200 {object} utils.APIResponse{data=dto.ActivityDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/activity/{activityId}/promote [post]
func (h *TicketHandler) PromoteActivity(c *gin.Context) {
	actor, ticketID, err := actorAndTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	activityID, err := utils.ParseUintParam(c, "activityId", "activity")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.promoteActivityUC.Execute(c.Request.Context(), usecases.PromoteActivityCommand{
		Actor:      actor,
		TicketID:   ticketID,
		ActivityID: activityID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Message approved", result)
}
