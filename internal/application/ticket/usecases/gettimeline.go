package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/constants"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type GetTimelineQuery struct {
	Actor    authorization.Actor
	TicketID uint
	// ReporterID asks for the reporter projection on behalf of that reporter.
	// Reporters always get their own projection.
	ReporterID    string
	Visibility    string
	ActivityTypes []string
}

// GetTimelineUseCase serves the three projections of a ticket's log: the full
// staff timeline, the reporter timeline and the plain text agent rendering.
type GetTimelineUseCase struct {
	access     ticketAccess
	activities ticket.ActivityRepository
	renderer   ContentRenderer
	logger     logger.Interface
}

func NewGetTimelineUseCase(
	tickets ticket.TicketRepository,
	activities ticket.ActivityRepository,
	perms PermissionChecker,
	renderer ContentRenderer,
	logger logger.Interface,
) *GetTimelineUseCase {
	return &GetTimelineUseCase{
		access:     ticketAccess{tickets: tickets, perms: perms},
		activities: activities,
		renderer:   renderer,
		logger:     logger,
	}
}

func (uc *GetTimelineUseCase) Execute(ctx context.Context, query GetTimelineQuery) ([]*dto.ActivityDTO, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionTimeline); err != nil {
		return nil, err
	}
	if query.Actor.IsReporter() || query.ReporterID != "" {
		return uc.forReporter(ctx, query)
	}

	if _, err := uc.access.load(ctx, query.Actor, query.TicketID); err != nil {
		return nil, err
	}
	filter, err := timelineFilter(query)
	if err != nil {
		return nil, err
	}
	entries, err := uc.activities.ListByTicket(ctx, query.TicketID, filter)
	if err != nil {
		return nil, err
	}
	return dto.ToActivityDTOs(entries), nil
}

// forReporter returns only what the reporter may see, with message content
// rendered to sanitized HTML. Any ownership mismatch is reported as not found.
func (uc *GetTimelineUseCase) forReporter(ctx context.Context, query GetTimelineQuery) ([]*dto.ActivityDTO, error) {
	reporterID := strings.TrimSpace(query.ReporterID)
	if query.Actor.IsReporter() && query.Actor.ID != "" {
		if reporterID != "" && reporterID != query.Actor.ID {
			return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
		}
		reporterID = query.Actor.ID
	}
	if reporterID == "" {
		return nil, errors.NewValidationError("reporter_id is required")
	}

	t, err := uc.access.tickets.GetByID(ctx, query.TicketID)
	if err != nil {
		return nil, err
	}
	if t.ReporterID() != reporterID {
		return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
	}

	visible := vo.VisibilityUserVisible
	entries, err := uc.activities.ListByTicket(ctx, query.TicketID, ticket.TimelineFilter{Visibility: &visible})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ActivityDTO, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsVisibleToReporter() {
			continue
		}
		item := dto.ToActivityDTO(entry)
		if entry.Type() == vo.ActivityMessage && entry.Content() != nil {
			html, err := uc.renderer.ToHTMLSanitized(*entry.Content())
			if err != nil {
				uc.logger.Warnw("failed to render message html", "activity_id", entry.ID(), "error", err)
			} else {
				item.ContentHTML = &html
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// RenderForAgent renders the whole log as plain text, one line per entry, under
// a short ticket header.
func (uc *GetTimelineUseCase) RenderForAgent(ctx context.Context, query GetTimelineQuery) (string, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionTimeline); err != nil {
		return "", err
	}
	if !query.Actor.Scope.IsStaff() {
		return "", errors.NewForbiddenError("agent timeline is not available to reporters")
	}

	t, err := uc.access.load(ctx, query.Actor, query.TicketID)
	if err != nil {
		return "", err
	}
	filter, err := timelineFilter(query)
	if err != nil {
		return "", err
	}
	entries, err := uc.activities.ListByTicket(ctx, query.TicketID, filter)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	uc.writeHeader(&b, t)
	for _, entry := range entries {
		fmt.Fprintf(&b, "[%s] %s (%s) %s: %s\n",
			entry.CreatedAt().UTC().Format(time.RFC3339),
			entry.AuthorName(),
			entry.AuthorType(),
			uc.label(entry.Type().String()),
			uc.describe(entry),
		)
	}
	return b.String(), nil
}

func (uc *GetTimelineUseCase) writeHeader(b *strings.Builder, t *ticket.Ticket) {
	fmt.Fprintf(b, "Ticket #%d: %s\n", t.TicketNumber(), uc.renderer.ToPlainText(t.Title()))
	fmt.Fprintf(b, "Status: %s | Type: %s | Priority: %s | Reporter: %s\n",
		t.Status(), t.TicketType(), t.Priority(), t.ReporterID())
	if t.Assignee() != "" || t.WorkPriority() != nil {
		wp := "-"
		if p := t.WorkPriority(); p != nil {
			wp = fmt.Sprintf("%d", *p)
		}
		fmt.Fprintf(b, "Assignee: %s | Work priority: %s\n", orDash(t.Assignee()), wp)
	}
	if t.Direction() != "" {
		fmt.Fprintf(b, "Direction: %s\n", uc.renderer.ToPlainText(t.Direction()))
	}
	if r := t.TestingResult(); r != nil {
		fmt.Fprintf(b, "Testing result: %s\n", *r)
	}
	fmt.Fprintf(b, "Description: %s\n", uc.renderer.ToPlainText(t.Description()))
	b.WriteString("---\n")
}

// label turns status_change into "Status Change". A Caser keeps state, so each
// call gets its own.
func (uc *GetTimelineUseCase) label(activityType string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(activityType, "_", " "))
}

// describe renders the entry content, or a summary of its metadata when it has none.
func (uc *GetTimelineUseCase) describe(entry *ticket.Activity) string {
	var summary string
	switch m := entry.Metadata().(type) {
	case ticket.StatusChangeMetadata:
		summary = m.From + " -> " + m.To
	case ticket.DecisionMetadata:
		summary = fmt.Sprintf("%s (%s -> %s)", m.Decision, m.From, m.To)
		if m.Resolution != "" {
			summary += " resolution=" + m.Resolution
		}
		if m.WorkPriority != nil {
			summary += fmt.Sprintf(" work_priority=%d", *m.WorkPriority)
		}
	case ticket.ResolutionMetadata:
		summary = m.From + " -> " + m.To
	case ticket.TestResultMetadata:
		summary = "result=" + m.Result
	case ticket.AssignmentMetadata:
		summary = orDash(m.From) + " -> " + orDash(m.To)
	case ticket.FieldChangeMetadata:
		fields := make([]string, 0, len(m.Changes))
		for _, c := range m.Changes {
			fields = append(fields, c.Field)
		}
		summary = "changed " + strings.Join(fields, ", ")
	case ticket.SystemMetadata:
		summary = m.Event
	}

	text := uc.renderer.ToPlainText(entry.ContentText())
	if entry.RequiresApproval() && entry.ApprovedAt() == nil {
		text = "[awaiting approval] " + text
	}
	switch {
	case summary == "":
		return text
	case text == "":
		return summary
	default:
		return summary + " | " + text
	}
}

func timelineFilter(query GetTimelineQuery) (ticket.TimelineFilter, error) {
	var filter ticket.TimelineFilter
	if v := strings.TrimSpace(query.Visibility); v != "" {
		visibility, err := vo.NewVisibility(v)
		if err != nil {
			return filter, errors.NewValidationError("invalid visibility", v)
		}
		filter.Visibility = &visibility
	}
	types, err := parseEnums(query.ActivityTypes, "activity_type", vo.NewActivityType)
	if err != nil {
		return filter, err
	}
	filter.ActivityTypes = types
	return filter, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
