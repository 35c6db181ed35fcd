package ticket

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validParams() NewTicketParams {
	return NewTicketParams{
		ProjectID:   "web",
		Title:       "Checkout button does nothing",
		Description: "Clicking pay on /checkout has no effect in Safari",
		TicketType:  vo.TypeBug,
		Reporter:    ReporterInfo{ID: "u-1", Name: "Ana"},
	}
}

func newValidTicket(t *testing.T) *Ticket {
	t.Helper()
	tk, err := NewTicket(validParams())
	require.NoError(t, err)
	require.NoError(t, tk.SetID(1))
	return tk
}

// ticketInStatus builds a persisted-style ticket in the given status.
func ticketInStatus(t *testing.T, status vo.TicketStatus) *Ticket {
	t.Helper()
	now := time.Now().UTC()
	tk, err := ReconstructTicket(TicketState{
		ID:           7,
		TicketNumber: 7,
		Title:        "Persisted ticket",
		Description:  "desc",
		Source:       vo.SourceSDK,
		TicketType:   vo.TypeBug,
		Status:       status,
		Priority:     vo.PriorityHigh,
		Reporter:     ReporterInfo{ID: "u-1"},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return tk
}

// ---------------------------------------------------------------------------
// Constructor
// ---------------------------------------------------------------------------

func TestNewTicket_Defaults(t *testing.T) {
	p := validParams()
	p.Tags = []string{" ui ", "ui", "", "safari"}
	ref := "  cli-123 "
	p.ClientReferenceID = &ref

	tk, err := NewTicket(p)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusNew, tk.Status())
	assert.Equal(t, vo.PriorityMedium, tk.Priority())
	assert.Equal(t, vo.SourceAPI, tk.Source())
	assert.Equal(t, []string{"ui", "safari"}, tk.Tags())
	require.NotNil(t, tk.ClientReferenceID())
	assert.Equal(t, "cli-123", *tk.ClientReferenceID())
	assert.Nil(t, tk.Resolution())
	assert.Nil(t, tk.WorkPriority())
	assert.False(t, tk.CreatedAt().IsZero())
}

func TestNewTicket_BlankClientReferenceIsIgnored(t *testing.T) {
	p := validParams()
	blank := "   "
	p.ClientReferenceID = &blank

	tk, err := NewTicket(p)
	require.NoError(t, err)
	assert.Nil(t, tk.ClientReferenceID())
}

func TestNewTicket_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *NewTicketParams)
		wantMsg string
	}{
		{name: "missing title", mutate: func(p *NewTicketParams) { p.Title = "  " }, wantMsg: "title is required"},
		{name: "title too long", mutate: func(p *NewTicketParams) { p.Title = strings.Repeat("a", 301) }, wantMsg: "title exceeds"},
		{name: "missing description", mutate: func(p *NewTicketParams) { p.Description = "" }, wantMsg: "description is required"},
		{name: "bad ticket type", mutate: func(p *NewTicketParams) { p.TicketType = "epic" }, wantMsg: "invalid ticket_type"},
		{name: "missing reporter", mutate: func(p *NewTicketParams) { p.Reporter.ID = "" }, wantMsg: "reporter_id is required"},
		{name: "bad source", mutate: func(p *NewTicketParams) { p.Source = "fax" }, wantMsg: "invalid source"},
		{name: "bad priority", mutate: func(p *NewTicketParams) { p.Priority = "urgent" }, wantMsg: "invalid priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			tk, err := NewTicket(p)
			require.Error(t, err)
			assert.Nil(t, tk)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestTicket_SetIDOnce(t *testing.T) {
	tk, err := NewTicket(validParams())
	require.NoError(t, err)

	require.NoError(t, tk.SetID(3))
	assert.Error(t, tk.SetID(4))
	require.NoError(t, tk.SetTicketNumber(12))
	assert.Error(t, tk.SetTicketNumber(13))
}

// ---------------------------------------------------------------------------
// Workflow
// ---------------------------------------------------------------------------

func TestTicket_Triage(t *testing.T) {
	tk := newValidTicket(t)

	err := tk.Triage(AIAssessment{Summary: "null handler", Severity: "high", AffectedFiles: []string{"checkout.ts"}})
	require.NoError(t, err)
	assert.Equal(t, vo.StatusTriaged, tk.Status())
	assert.Equal(t, "null handler", tk.AI().Summary)

	err = tk.Triage(AIAssessment{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransitionError(err))
}

func TestTicket_ApproveRequiresTriage(t *testing.T) {
	tk := newValidTicket(t)
	wp := 1

	err := tk.Approve("patch the click handler", &wp)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransitionError(err))
	assert.Contains(t, errors.GetAppError(err).Details, "triaged, closed")

	require.NoError(t, tk.Triage(AIAssessment{}))
	require.NoError(t, tk.Approve("patch the click handler", &wp))
	assert.Equal(t, vo.StatusApproved, tk.Status())
	assert.Equal(t, "patch the click handler", tk.Direction())
	require.NotNil(t, tk.WorkPriority())
	assert.Equal(t, 1, *tk.WorkPriority())

	wp = 9
	assert.Equal(t, 1, *tk.WorkPriority(), "caller mutation must not leak into the snapshot")
}

func TestTicket_ApproveRejectsNegativePriority(t *testing.T) {
	tk := ticketInStatus(t, vo.StatusTriaged)
	wp := -1

	err := tk.Approve("", &wp)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, vo.StatusTriaged, tk.Status())
}

func TestTicket_Reject(t *testing.T) {
	tests := []struct {
		name       string
		status     vo.TicketStatus
		resolution vo.Resolution
		reason     string
		wantErr    func(error) bool
	}{
		{name: "non fix from new", status: vo.StatusNew, resolution: vo.ResolutionDuplicate, reason: "same as #4"},
		{name: "non fix from in_review", status: vo.StatusInReview, resolution: vo.ResolutionWontFix, reason: "by policy"},
		{name: "fixed is not a rejection", status: vo.StatusNew, resolution: vo.ResolutionFixed, reason: "x", wantErr: errors.IsValidationError},
		{name: "missing resolution", status: vo.StatusNew, reason: "x", wantErr: errors.IsValidationError},
		{name: "missing reason", status: vo.StatusNew, resolution: vo.ResolutionInvalid, wantErr: errors.IsValidationError},
		{name: "already closed", status: vo.StatusClosed, resolution: vo.ResolutionInvalid, reason: "x", wantErr: errors.IsInvalidTransitionError},
		{name: "already resolved", status: vo.StatusResolved, resolution: vo.ResolutionInvalid, reason: "x", wantErr: errors.IsInvalidTransitionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := ticketInStatus(t, tt.status)
			err := tk.Reject(tt.resolution, tt.reason)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), err.Error())
				assert.Equal(t, tt.status, tk.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, vo.StatusClosed, tk.Status())
			require.NotNil(t, tk.Resolution())
			assert.Equal(t, tt.resolution, *tk.Resolution())
		})
	}
}

func TestTicket_ResolveStoresHandoff(t *testing.T) {
	tk := ticketInStatus(t, vo.StatusApproved)
	handoff := TestingHandoff{ResolutionNotes: "bound handler", TestingInstructions: "click pay", TestingURL: "https://staging/checkout"}

	require.NoError(t, tk.Resolve(handoff))
	assert.Equal(t, vo.StatusInReview, tk.Status())
	assert.Equal(t, handoff, tk.Handoff())
	assert.Nil(t, tk.Resolution(), "resolution is only attached when the fix reaches resolved")
}

func TestTicket_ChangeStatus(t *testing.T) {
	tk := ticketInStatus(t, vo.StatusInReview)

	prev, err := tk.ChangeStatus(vo.StatusUserReview)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusInReview, prev)

	_, err = tk.ChangeStatus(vo.StatusApproved)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeInvalidTransition, appErr.Type)
	assert.Equal(t, "allowed next states: resolved, in_progress, closed", appErr.Details)

	_, err = tk.ChangeStatus(vo.StatusResolved)
	require.NoError(t, err)
	require.NotNil(t, tk.Resolution())
	assert.Equal(t, vo.ResolutionFixed, *tk.Resolution())

	_, err = tk.ChangeStatus(vo.StatusClosed)
	require.Error(t, err)
	assert.Equal(t, "no transitions allowed", errors.GetAppError(err).Details)
}

func TestTicket_ChangeStatusRejectsUnknown(t *testing.T) {
	tk := newValidTicket(t)
	_, err := tk.ChangeStatus(vo.TicketStatus("reopened"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestTicket_UpdatedAtAdvances(t *testing.T) {
	tk := ticketInStatus(t, vo.StatusNew)
	before := tk.UpdatedAt()
	time.Sleep(2 * time.Millisecond)

	require.NoError(t, tk.RecordTestResult(vo.TestingFail))
	assert.True(t, tk.UpdatedAt().After(before))
}

func TestTicket_RecordTestResult(t *testing.T) {
	tk := ticketInStatus(t, vo.StatusInReview)

	require.NoError(t, tk.RecordTestResult(vo.TestingPartial))
	require.NotNil(t, tk.TestingResult())
	assert.True(t, tk.TestingResult().NeedsRework())

	assert.Error(t, tk.RecordTestResult("meh"))
}

func TestTicket_Assign(t *testing.T) {
	tk := newValidTicket(t)

	assert.Equal(t, "", tk.Assign(" claude-agent "))
	assert.Equal(t, "claude-agent", tk.Assignee())
	assert.Equal(t, "claude-agent", tk.Assign(""))
	assert.Equal(t, "", tk.Assignee())
}

func TestTicket_ScheduleFollowup(t *testing.T) {
	tk := newValidTicket(t)
	after := time.Date(2026, 3, 1, 9, 30, 15, 999, time.UTC)

	changes := tk.ScheduleFollowup(true, "ask if fixed", &after)
	require.Len(t, changes, 3)
	assert.True(t, tk.NeedsFollowup())
	assert.Equal(t, after.Truncate(time.Second), *tk.FollowupAfter())

	assert.Empty(t, tk.ScheduleFollowup(true, "ask if fixed", &after), "repeat call changes nothing")

	assert.True(t, tk.IsFollowupDue(after.Add(time.Minute)))
	assert.False(t, tk.IsFollowupDue(after.Add(-time.Minute)))

	changes = tk.ScheduleFollowup(false, "ignored", &after)
	require.Len(t, changes, 3)
	assert.False(t, tk.NeedsFollowup())
	assert.Equal(t, "", tk.FollowupNotes())
	assert.Nil(t, tk.FollowupAfter())
}

func TestTicket_MarkDeleted(t *testing.T) {
	tk := newValidTicket(t)

	require.NoError(t, tk.MarkDeleted(time.Now()))
	assert.True(t, tk.IsDeleted())

	err := tk.MarkDeleted(time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

// ---------------------------------------------------------------------------
// Partial update
// ---------------------------------------------------------------------------

func TestTicket_ApplyChanges(t *testing.T) {
	tk := newValidTicket(t)
	title := "  Checkout button broken in Safari "
	prio := vo.PriorityCritical
	sameDesc := tk.Description()
	tags := []string{"safari", "checkout"}
	wp := 2

	changes, err := tk.ApplyChanges(Changes{
		Title:        &title,
		Description:  &sameDesc,
		Priority:     &prio,
		Tags:         &tags,
		WorkPriority: &wp,
	})
	require.NoError(t, err)

	fields := make([]string, 0, len(changes))
	for _, c := range changes {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []string{"title", "priority", "tags", "work_priority"}, fields)
	assert.Equal(t, "Checkout button broken in Safari", tk.Title())
	assert.Equal(t, "medium", changes[1].From)
	assert.Equal(t, "critical", changes[1].To)
	assert.Nil(t, changes[3].From)
}

func TestTicket_ApplyChangesNoop(t *testing.T) {
	tk := newValidTicket(t)
	before := tk.UpdatedAt()
	sameTitle := tk.Title()

	changes, err := tk.ApplyChanges(Changes{Title: &sameTitle})
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, before, tk.UpdatedAt())
}

func TestTicket_ApplyChangesValidation(t *testing.T) {
	empty := ""
	badType := vo.TicketType("epic")
	neg := -4
	self := uint(1)
	zero := uint(0)

	tests := []struct {
		name    string
		changes Changes
	}{
		{name: "empty title", changes: Changes{Title: &empty}},
		{name: "empty description", changes: Changes{Description: &empty}},
		{name: "bad type", changes: Changes{TicketType: &badType}},
		{name: "negative work priority", changes: Changes{WorkPriority: &neg}},
		{name: "self parent", changes: Changes{ParentID: &self}},
		{name: "zero parent", changes: Changes{ParentID: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newValidTicket(t)
			changes, err := tk.ApplyChanges(tt.changes)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Nil(t, changes)
		})
	}
}
