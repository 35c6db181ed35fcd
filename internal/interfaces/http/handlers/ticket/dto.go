package ticket

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/application/ticket/usecases"
	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/utils"
)

type CreateTicketRequest struct {
	ProjectID         string   `json:"project_id" binding:"max=100"`
	Title             string   `json:"title" binding:"required"`
	Description       string   `json:"description" binding:"required"`
	Source            string   `json:"source"`
	TicketType        string   `json:"ticket_type" binding:"required"`
	Priority          string   `json:"priority"`
	Tags              []string `json:"tags,omitempty"`
	Route             string   `json:"route,omitempty"`
	Environment       string   `json:"environment,omitempty"`
	BrowserInfo       string   `json:"browser_info,omitempty"`
	OSInfo            string   `json:"os_info,omitempty"`
	ReporterID        string   `json:"reporter_id,omitempty"`
	ReporterName      string   `json:"reporter_name,omitempty"`
	ReporterEmail     string   `json:"reporter_email,omitempty" binding:"omitempty,email"`
	ParentID          *uint    `json:"parent_id,omitempty"`
	ClientReferenceID *string  `json:"client_reference_id,omitempty" binding:"omitempty,max=255"`
}

func (r *CreateTicketRequest) ToCommand(actor authorization.Actor) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Actor:             actor,
		ProjectID:         r.ProjectID,
		Title:             r.Title,
		Description:       r.Description,
		Source:            r.Source,
		TicketType:        r.TicketType,
		Priority:          r.Priority,
		Tags:              r.Tags,
		Route:             r.Route,
		Environment:       r.Environment,
		BrowserInfo:       r.BrowserInfo,
		OSInfo:            r.OSInfo,
		ReporterID:        r.ReporterID,
		ReporterName:      r.ReporterName,
		ReporterEmail:     r.ReporterEmail,
		ParentID:          r.ParentID,
		ClientReferenceID: r.ClientReferenceID,
	}
}

// UpdateTicketRequest is a partial update; omitted fields are left alone.
type UpdateTicketRequest struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	TicketType    *string   `json:"ticket_type,omitempty"`
	Priority      *string   `json:"priority,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Route         *string   `json:"route,omitempty"`
	Environment   *string   `json:"environment,omitempty"`
	BrowserInfo   *string   `json:"browser_info,omitempty"`
	OSInfo        *string   `json:"os_info,omitempty"`
	ReporterName  *string   `json:"reporter_name,omitempty"`
	ReporterEmail *string   `json:"reporter_email,omitempty" binding:"omitempty,email"`
	Direction     *string   `json:"direction,omitempty"`
	WorkPriority  *int      `json:"work_priority,omitempty"`
	ParentID      *uint     `json:"parent_id,omitempty"`
	// Status is accepted only to reject it with a pointer to the status action.
	Status *string `json:"status,omitempty"`
}

func (r *UpdateTicketRequest) ToChanges() (ticket.Changes, error) {
	if r.Status != nil {
		return ticket.Changes{}, errors.NewValidationError("status cannot be updated directly", "use POST /tickets/:id/activity with action=status")
	}
	changes := ticket.Changes{
		Title:         r.Title,
		Description:   r.Description,
		Tags:          r.Tags,
		Route:         r.Route,
		Environment:   r.Environment,
		BrowserInfo:   r.BrowserInfo,
		OSInfo:        r.OSInfo,
		ReporterName:  r.ReporterName,
		ReporterEmail: r.ReporterEmail,
		Direction:     r.Direction,
		WorkPriority:  r.WorkPriority,
		ParentID:      r.ParentID,
	}
	if r.TicketType != nil {
		tt := vo.TicketType(strings.TrimSpace(*r.TicketType))
		changes.TicketType = &tt
	}
	if r.Priority != nil {
		p := vo.Priority(strings.TrimSpace(*r.Priority))
		changes.Priority = &p
	}
	return changes, nil
}

// ActivityRequest is the body of POST /tickets/:id/activity. Which fields are
// read depends on action.
type ActivityRequest struct {
	Action string `json:"action" binding:"required"`

	Content          string `json:"content,omitempty"`
	RequiresApproval bool   `json:"requires_approval,omitempty"`

	Result  string `json:"result,omitempty"`
	Details string `json:"details,omitempty"`

	Status string `json:"status,omitempty"`
	Note   string `json:"note,omitempty"`

	Direction    string `json:"direction,omitempty"`
	WorkPriority *int   `json:"work_priority,omitempty"`

	Resolution string `json:"resolution,omitempty"`
	Reason     string `json:"reason,omitempty"`

	ResolutionNotes     string `json:"resolution_notes,omitempty"`
	TestingInstructions string `json:"testing_instructions,omitempty"`
	TestingURL          string `json:"testing_url,omitempty" binding:"omitempty,url"`

	AISummary       string   `json:"ai_summary,omitempty"`
	AICategory      string   `json:"ai_category,omitempty"`
	AISeverity      string   `json:"ai_severity,omitempty"`
	AISuggestedFix  string   `json:"ai_suggested_fix,omitempty"`
	AIAffectedFiles []string `json:"ai_affected_files,omitempty"`
	AIConfidence    string   `json:"ai_confidence,omitempty"`

	Assignee string `json:"assignee,omitempty"`

	NeedsFollowup bool       `json:"needs_followup,omitempty"`
	FollowupNotes string     `json:"followup_notes,omitempty"`
	FollowupAfter *time.Time `json:"followup_after,omitempty"`
}

func (r *ActivityRequest) ToCommand(actor authorization.Actor, ticketID uint) usecases.RecordActivityCommand {
	return usecases.RecordActivityCommand{
		Actor:    actor,
		TicketID: ticketID,
		Action:   strings.TrimSpace(r.Action),
		Input: usecases.ActivityInput{
			Content:             r.Content,
			RequiresApproval:    r.RequiresApproval,
			Result:              r.Result,
			Details:             r.Details,
			Status:              r.Status,
			Note:                r.Note,
			Direction:           r.Direction,
			WorkPriority:        r.WorkPriority,
			Resolution:          r.Resolution,
			Reason:              r.Reason,
			ResolutionNotes:     r.ResolutionNotes,
			TestingInstructions: r.TestingInstructions,
			TestingURL:          r.TestingURL,
			AI: ticket.AIAssessment{
				Summary:       r.AISummary,
				Category:      r.AICategory,
				Severity:      r.AISeverity,
				SuggestedFix:  r.AISuggestedFix,
				AffectedFiles: r.AIAffectedFiles,
				Confidence:    r.AIConfidence,
			},
			Assignee:      r.Assignee,
			NeedsFollowup: r.NeedsFollowup,
			FollowupNotes: r.FollowupNotes,
			FollowupAfter: r.FollowupAfter,
		},
	}
}

func parseListTicketsQuery(c *gin.Context, actor authorization.Actor) usecases.ListTicketsQuery {
	p := utils.ParsePagination(c)
	return usecases.ListTicketsQuery{
		Actor:         actor,
		ProjectID:     c.Query("project_id"),
		Statuses:      c.QueryArray("status"),
		Types:         c.QueryArray("ticket_type"),
		Priorities:    c.QueryArray("priority"),
		Assignee:      c.Query("assignee"),
		ReporterID:    c.Query("reporter_id"),
		NeedsFollowup: utils.ParseBoolQuery(c, "needs_followup"),
		Search:        c.Query("search"),
		Page:          p.Page,
		PageSize:      p.PageSize,
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
	}
}

func parseTimelineQuery(c *gin.Context, actor authorization.Actor, ticketID uint) usecases.GetTimelineQuery {
	return usecases.GetTimelineQuery{
		Actor:         actor,
		TicketID:      ticketID,
		ReporterID:    c.Query("reporter_id"),
		Visibility:    c.Query("visibility"),
		ActivityTypes: c.QueryArray("activity_type"),
	}
}

func parsePipelineQuery(c *gin.Context, actor authorization.Actor) (usecases.PipelineQuery, error) {
	q := usecases.PipelineQuery{
		Actor:     actor,
		ProjectID: c.Query("project_id"),
	}
	if raw := c.Query("batch_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, errors.NewValidationError("invalid batch_size", "must be a positive integer")
		}
		q.BatchSize = n
	}
	return q, nil
}
