package ticket

import (
	"fmt"
	"time"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
)

// WorkflowState is the part of the snapshot that is derivable from the activity log.
type WorkflowState struct {
	Status        vo.TicketStatus
	Resolution    *vo.Resolution
	Priority      vo.Priority
	TicketType    vo.TicketType
	WorkPriority  *int
	TestingResult *vo.TestingResult
	Assignee      string
	Direction     string
	NeedsFollowup bool
	FollowupNotes string
	FollowupAfter *time.Time
	Handoff       TestingHandoff
	AI            AIAssessment
	Deleted       bool
}

// WorkflowState projects the snapshot onto the replayable fields.
func (t *Ticket) WorkflowState() WorkflowState {
	return WorkflowState{
		Status:        t.status,
		Resolution:    t.resolution,
		Priority:      t.priority,
		TicketType:    t.ticketType,
		WorkPriority:  t.workPriority,
		TestingResult: t.testingResult,
		Assignee:      t.assignee,
		Direction:     t.direction,
		NeedsFollowup: t.needsFollowup,
		FollowupNotes: t.followupNotes,
		FollowupAfter: t.followupAfter,
		Handoff:       t.handoff,
		AI:            t.AI(),
		Deleted:       t.deletedAt != nil,
	}
}

// Replay rebuilds the workflow state by folding entries in creation order. The
// first entry must be the creation entry, and every status move must follow the
// transition table.
func Replay(entries []*Activity) (WorkflowState, error) {
	var st WorkflowState
	if len(entries) == 0 {
		return st, fmt.Errorf("cannot replay an empty log")
	}

	first, ok := entries[0].Metadata().(SystemMetadata)
	if !ok || first.Event != SystemEventCreated {
		return st, fmt.Errorf("log does not start with a creation entry")
	}
	st.Status = vo.TicketStatus(first.Status)
	st.Priority = vo.Priority(first.Priority)
	st.TicketType = vo.TicketType(first.TicketType)

	for _, entry := range entries[1:] {
		if err := st.apply(entry); err != nil {
			return st, fmt.Errorf("replay entry %d: %w", entry.ID(), err)
		}
	}
	return st, nil
}

func (st *WorkflowState) move(from, to string) error {
	if vo.TicketStatus(from) != st.Status {
		return fmt.Errorf("entry moves from %s but ticket is %s", from, st.Status)
	}
	next := vo.TicketStatus(to)
	if !st.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal transition %s -> %s", st.Status, next)
	}
	st.Status = next
	if next == vo.StatusResolved {
		fixed := vo.ResolutionFixed
		st.Resolution = &fixed
	}
	return nil
}

func (st *WorkflowState) apply(entry *Activity) error {
	switch m := entry.Metadata().(type) {
	case nil:
		return nil
	case SystemMetadata:
		if m.Event == SystemEventDeleted {
			st.Deleted = true
		}
	case StatusChangeMetadata:
		return st.move(m.From, m.To)
	case DecisionMetadata:
		if err := st.move(m.From, m.To); err != nil {
			return err
		}
		switch m.Decision {
		case DecisionTriage:
			if m.AI != nil {
				st.AI = *m.AI
			}
		case DecisionApprove:
			st.Direction = m.Direction
			if m.WorkPriority != nil {
				wp := *m.WorkPriority
				st.WorkPriority = &wp
			}
		case DecisionReject:
			r := vo.Resolution(m.Resolution)
			st.Resolution = &r
		}
	case ResolutionMetadata:
		if err := st.move(m.From, m.To); err != nil {
			return err
		}
		st.Handoff = m.TestingHandoff
	case TestResultMetadata:
		r := vo.TestingResult(m.Result)
		st.TestingResult = &r
	case AssignmentMetadata:
		st.Assignee = m.To
	case FieldChangeMetadata:
		for _, change := range m.Changes {
			st.applyField(change)
		}
	}
	return nil
}

// applyField handles the workflow fields that field_change entries may carry.
// Values may arrive decoded from JSON, so numbers are float64 there.
func (st *WorkflowState) applyField(c FieldChange) {
	switch c.Field {
	case "priority":
		if s, ok := c.To.(string); ok {
			st.Priority = vo.Priority(s)
		}
	case "ticket_type":
		if s, ok := c.To.(string); ok {
			st.TicketType = vo.TicketType(s)
		}
	case "direction":
		if s, ok := c.To.(string); ok {
			st.Direction = s
		}
	case "work_priority":
		if n, ok := asInt(c.To); ok {
			st.WorkPriority = &n
		}
	case "needs_followup":
		if b, ok := c.To.(bool); ok {
			st.NeedsFollowup = b
		}
	case "followup_notes":
		if s, ok := c.To.(string); ok {
			st.FollowupNotes = s
		}
	case "followup_after":
		st.FollowupAfter = nil
		if s, ok := c.To.(string); ok {
			if at, err := time.Parse(time.RFC3339, s); err == nil {
				at = at.UTC()
				st.FollowupAfter = &at
			}
		}
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
