package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
)

func entry(t *testing.T, id uint, m Metadata) *Activity {
	t.Helper()
	a, err := ReconstructActivity(ActivityState{
		ID:         id,
		TicketID:   1,
		Type:       m.ActivityType(),
		AuthorType: vo.AuthorAgent,
		Metadata:   m,
		Visibility: vo.VisibilityInternal,
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	return a
}

func TestReplay_RebuildsWorkflowFields(t *testing.T) {
	wp := 1
	log := []*Activity{
		entry(t, 1, SystemMetadata{Event: SystemEventCreated, Status: "new", Priority: "medium", TicketType: "bug"}),
		entry(t, 2, DecisionMetadata{Decision: DecisionTriage, From: "new", To: "triaged", AI: &AIAssessment{Summary: "nil deref"}}),
		entry(t, 3, DecisionMetadata{Decision: DecisionApprove, From: "triaged", To: "approved", Direction: "guard it", WorkPriority: &wp}),
		entry(t, 4, AssignmentMetadata{From: "", To: "fixer-bot"}),
		entry(t, 5, FieldChangeMetadata{Changes: []FieldChange{{Field: "priority", From: "medium", To: "high"}, {Field: "work_priority", From: 1, To: float64(3)}}}),
		entry(t, 6, ResolutionMetadata{From: "approved", To: "in_review", TestingHandoff: TestingHandoff{TestingURL: "https://staging"}}),
		entry(t, 7, TestResultMetadata{Result: "fail"}),
		entry(t, 8, StatusChangeMetadata{From: "in_review", To: "in_progress"}),
		entry(t, 9, FieldChangeMetadata{Changes: []FieldChange{{Field: "needs_followup", From: false, To: true}, {Field: "followup_after", From: nil, To: "2026-03-01T09:00:00Z"}}}),
	}

	st, err := Replay(log)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusInProgress, st.Status)
	assert.Equal(t, vo.PriorityHigh, st.Priority)
	assert.Equal(t, "guard it", st.Direction)
	assert.Equal(t, "fixer-bot", st.Assignee)
	assert.Equal(t, "nil deref", st.AI.Summary)
	require.NotNil(t, st.WorkPriority)
	assert.Equal(t, 3, *st.WorkPriority)
	require.NotNil(t, st.TestingResult)
	assert.Equal(t, vo.TestingFail, *st.TestingResult)
	assert.Equal(t, "https://staging", st.Handoff.TestingURL)
	assert.True(t, st.NeedsFollowup)
	require.NotNil(t, st.FollowupAfter)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), *st.FollowupAfter)
	assert.Nil(t, st.Resolution)
}

func TestReplay_ReachesResolvedWithFix(t *testing.T) {
	log := []*Activity{
		entry(t, 1, SystemMetadata{Event: SystemEventCreated, Status: "new", Priority: "low", TicketType: "task"}),
		entry(t, 2, StatusChangeMetadata{From: "new", To: "triaged"}),
		entry(t, 3, StatusChangeMetadata{From: "triaged", To: "in_progress"}),
		entry(t, 4, StatusChangeMetadata{From: "in_progress", To: "in_review"}),
		entry(t, 5, StatusChangeMetadata{From: "in_review", To: "user_review"}),
		entry(t, 6, StatusChangeMetadata{From: "user_review", To: "resolved"}),
		entry(t, 7, SystemMetadata{Event: SystemEventDeleted}),
	}

	st, err := Replay(log)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusResolved, st.Status)
	require.NotNil(t, st.Resolution)
	assert.Equal(t, vo.ResolutionFixed, *st.Resolution)
	assert.True(t, st.Deleted)
}

func TestReplay_RejectsBrokenLogs(t *testing.T) {
	_, err := Replay(nil)
	assert.Error(t, err)

	_, err = Replay([]*Activity{entry(t, 1, StatusChangeMetadata{From: "new", To: "triaged"})})
	assert.ErrorContains(t, err, "creation entry")

	_, err = Replay([]*Activity{
		entry(t, 1, SystemMetadata{Event: SystemEventCreated, Status: "new"}),
		entry(t, 2, StatusChangeMetadata{From: "new", To: "resolved"}),
	})
	assert.ErrorContains(t, err, "illegal transition new -> resolved")

	_, err = Replay([]*Activity{
		entry(t, 1, SystemMetadata{Event: SystemEventCreated, Status: "new"}),
		entry(t, 2, StatusChangeMetadata{From: "triaged", To: "approved"}),
	})
	assert.ErrorContains(t, err, "ticket is new")
}

func TestReplay_MatchesSnapshot(t *testing.T) {
	tk := newValidTicket(t)
	var log []*Activity
	id := uint(0)
	add := func(m Metadata) {
		id++
		log = append(log, entry(t, id, m))
	}

	add(SystemMetadata{Event: SystemEventCreated, Status: string(tk.Status()), Priority: string(tk.Priority()), TicketType: string(tk.TicketType())})

	require.NoError(t, tk.Triage(AIAssessment{Category: "ui"}))
	add(DecisionMetadata{Decision: DecisionTriage, From: "new", To: "triaged", AI: &AIAssessment{Category: "ui"}})

	prio := vo.PriorityLow
	changes, err := tk.ApplyChanges(Changes{Priority: &prio})
	require.NoError(t, err)
	add(FieldChangeMetadata{Changes: changes})

	require.NoError(t, tk.Reject(vo.ResolutionDeferred, "next quarter"))
	add(DecisionMetadata{Decision: DecisionReject, From: "triaged", To: "closed", Resolution: "deferred", Reason: "next quarter"})

	st, err := Replay(log)
	require.NoError(t, err)
	assert.Equal(t, tk.WorkflowState(), st)
}
