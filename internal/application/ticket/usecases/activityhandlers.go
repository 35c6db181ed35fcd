package usecases

import (
	"strings"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/errors"
)

// activityHandler applies one action to the snapshot and describes the log
// entry to append. mutated reports whether the snapshot must be written back.
type activityHandler func(t *ticket.Ticket, actor authorization.Actor, in ActivityInput) (params ticket.NewActivityParams, mutated bool, err error)

func activityHandlers() map[authorization.Action]activityHandler {
	return map[authorization.Action]activityHandler{
		authorization.ActionComment:    addComment,
		authorization.ActionMessage:    sendMessage,
		authorization.ActionTestResult: submitTestResult,
		authorization.ActionStatus:     changeStatus,
		authorization.ActionApprove:    approveTicket,
		authorization.ActionReject:     rejectTicket,
		authorization.ActionResolve:    resolveTicket,
		authorization.ActionTriage:     triageTicket,
		authorization.ActionAssign:     assignTicket,
		authorization.ActionFollowup:   scheduleFollowup,
	}
}

func textPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func requireContent(content string) (*string, error) {
	text := textPtr(content)
	if text == nil {
		return nil, errors.NewValidationError("content is required")
	}
	return text, nil
}

func addComment(_ *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	content, err := requireContent(in.Content)
	if err != nil {
		return ticket.NewActivityParams{}, false, err
	}
	return ticket.NewActivityParams{
		Type:       vo.ActivityComment,
		Content:    content,
		Visibility: vo.VisibilityInternal,
	}, false, nil
}

// sendMessage talks to the reporter. Staff messages that need approval stay
// internal until promoted; reporter messages are always visible.
func sendMessage(_ *ticket.Ticket, actor authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	content, err := requireContent(in.Content)
	if err != nil {
		return ticket.NewActivityParams{}, false, err
	}

	params := ticket.NewActivityParams{
		Type:       vo.ActivityMessage,
		Content:    content,
		Visibility: vo.VisibilityUserVisible,
	}
	if !actor.IsReporter() && in.RequiresApproval {
		params.Visibility = vo.VisibilityInternal
		params.RequiresApproval = true
	}
	return params, false, nil
}

func submitTestResult(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	if strings.TrimSpace(in.Result) == "" {
		return ticket.NewActivityParams{}, false, errors.NewValidationError("result is required")
	}
	result := vo.TestingResult(strings.TrimSpace(in.Result))
	if err := t.RecordTestResult(result); err != nil {
		return ticket.NewActivityParams{}, false, err
	}
	return ticket.NewActivityParams{
		Type:       vo.ActivityTestResult,
		Content:    textPtr(in.Details),
		Metadata:   ticket.TestResultMetadata{Result: result.String(), Details: strings.TrimSpace(in.Details)},
		Visibility: vo.VisibilityUserVisible,
	}, true, nil
}

func changeStatus(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	raw := strings.TrimSpace(in.Status)
	if raw == "" {
		return ticket.NewActivityParams{}, false, errors.NewValidationError("status is required")
	}
	next, err := vo.NewTicketStatus(raw)
	if err != nil {
		return ticket.NewActivityParams{}, false, errors.NewValidationError("invalid status", raw)
	}
	// Closing needs a non-fix resolution, which only reject records.
	if next == vo.StatusClosed {
		return ticket.NewActivityParams{}, false, errors.NewValidationError("use the reject action to close a ticket")
	}

	prev, err := t.ChangeStatus(next)
	if err != nil {
		return ticket.NewActivityParams{}, false, err
	}
	meta := ticket.StatusChangeMetadata{From: prev.String(), To: next.String()}
	if r := t.Resolution(); r != nil && next == vo.StatusResolved {
		meta.Resolution = r.String()
	}
	return ticket.NewActivityParams{
		Type:       vo.ActivityStatusChange,
		Content:    textPtr(in.Note),
		Metadata:   meta,
		Visibility: vo.VisibilityUserVisible,
	}, true, nil
}

func approveTicket(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	prev := t.Status()
	if err := t.Approve(in.Direction, in.WorkPriority); err != nil {
		return ticket.NewActivityParams{}, false, err
	}
	return ticket.NewActivityParams{
		Type:    vo.ActivityDecision,
		Content: textPtr(in.Direction),
		Metadata: ticket.DecisionMetadata{
			Decision:     ticket.DecisionApprove,
			From:         prev.String(),
			To:           t.Status().String(),
			Direction:    t.Direction(),
			WorkPriority: t.WorkPriority(),
		},
		Visibility: vo.VisibilityInternal,
	}, true, nil
}

func rejectTicket(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	prev := t.Status()
	resolution := vo.Resolution(strings.TrimSpace(in.Resolution))
	reason := strings.TrimSpace(in.Reason)
	if err := t.Reject(resolution, reason); err != nil {
		return ticket.NewActivityParams{}, false, err
	}
	return ticket.NewActivityParams{
		Type:    vo.ActivityDecision,
		Content: &reason,
		Metadata: ticket.DecisionMetadata{
			Decision:   ticket.DecisionReject,
			From:       prev.String(),
			To:         t.Status().String(),
			Resolution: resolution.String(),
			Reason:     reason,
		},
		Visibility: vo.VisibilityInternal,
	}, true, nil
}

func resolveTicket(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	prev := t.Status()
	handoff := ticket.TestingHandoff{
		ResolutionNotes:     strings.TrimSpace(in.ResolutionNotes),
		TestingInstructions: strings.TrimSpace(in.TestingInstructions),
		TestingURL:          strings.TrimSpace(in.TestingURL),
	}
	if err := t.Resolve(handoff); err != nil {
		return ticket.NewActivityParams{}, false, err
	}
	return ticket.NewActivityParams{
		Type:    vo.ActivityResolution,
		Content: textPtr(handoff.ResolutionNotes),
		Metadata: ticket.ResolutionMetadata{
			From:           prev.String(),
			To:             t.Status().String(),
			TestingHandoff: handoff,
		},
		Visibility: vo.VisibilityUserVisible,
	}, true, nil
}

func triageTicket(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	prev := t.Status()
	if err := t.Triage(in.AI); err != nil {
		return ticket.NewActivityParams{}, false, err
	}
	ai := t.AI()
	return ticket.NewActivityParams{
		Type:    vo.ActivityDecision,
		Content: textPtr(ai.Summary),
		Metadata: ticket.DecisionMetadata{
			Decision: ticket.DecisionTriage,
			From:     prev.String(),
			To:       t.Status().String(),
			AI:       &ai,
		},
		Visibility: vo.VisibilityInternal,
	}, true, nil
}

func assignTicket(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	next := strings.TrimSpace(in.Assignee)
	if next == t.Assignee() {
		if next == "" {
			return ticket.NewActivityParams{}, false, errors.NewValidationError("ticket is not assigned")
		}
		return ticket.NewActivityParams{}, false, errors.NewValidationError("ticket is already assigned to " + next)
	}
	prev := t.Assign(next)
	return ticket.NewActivityParams{
		Type:       vo.ActivityAssignment,
		Metadata:   ticket.AssignmentMetadata{From: prev, To: next},
		Visibility: vo.VisibilityInternal,
	}, true, nil
}

func scheduleFollowup(t *ticket.Ticket, _ authorization.Actor, in ActivityInput) (ticket.NewActivityParams, bool, error) {
	if in.NeedsFollowup && in.FollowupAfter == nil {
		return ticket.NewActivityParams{}, false, errors.NewValidationError("followup_after is required when needs_followup is true")
	}
	changes := t.ScheduleFollowup(in.NeedsFollowup, strings.TrimSpace(in.FollowupNotes), in.FollowupAfter)
	if len(changes) == 0 {
		return ticket.NewActivityParams{}, false, errors.NewValidationError("follow-up is already scheduled this way")
	}
	return ticket.NewActivityParams{
		Type:       vo.ActivityFieldChange,
		Content:    textPtr(in.FollowupNotes),
		Metadata:   ticket.FieldChangeMetadata{Changes: changes},
		Visibility: vo.VisibilityInternal,
	}, true, nil
}
