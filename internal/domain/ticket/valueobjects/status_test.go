package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := NewTicketStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := NewTicketStatus("reopened")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ticket status")
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TicketStatus
		to   TicketStatus
		want bool
	}{
		{name: "new to triaged", from: StatusNew, to: StatusTriaged, want: true},
		{name: "new to closed (rejection)", from: StatusNew, to: StatusClosed, want: true},
		{name: "new cannot skip to approved", from: StatusNew, to: StatusApproved, want: false},
		{name: "triaged to approved", from: StatusTriaged, to: StatusApproved, want: true},
		{name: "triaged to in_progress", from: StatusTriaged, to: StatusInProgress, want: true},
		{name: "approved to in_review", from: StatusApproved, to: StatusInReview, want: true},
		{name: "approved to in_progress", from: StatusApproved, to: StatusInProgress, want: true},
		{name: "in_progress to in_review", from: StatusInProgress, to: StatusInReview, want: true},
		{name: "in_review to user_review", from: StatusInReview, to: StatusUserReview, want: true},
		{name: "in_review rework", from: StatusInReview, to: StatusInProgress, want: true},
		{name: "user_review to resolved", from: StatusUserReview, to: StatusResolved, want: true},
		{name: "user_review rework", from: StatusUserReview, to: StatusInProgress, want: true},
		{name: "in_review cannot jump to resolved", from: StatusInReview, to: StatusResolved, want: false},
		{name: "resolved is terminal", from: StatusResolved, to: StatusInProgress, want: false},
		{name: "closed is terminal", from: StatusClosed, to: StatusNew, want: false},
		{name: "same status is not a transition", from: StatusTriaged, to: StatusTriaged, want: false},
		{name: "unknown source", from: TicketStatus("bogus"), to: StatusClosed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTicketStatus_EveryNonTerminalCanClose(t *testing.T) {
	for _, s := range AllStatuses() {
		if s.IsTerminal() {
			assert.Empty(t, s.AllowedTransitions(), "terminal status %s must have no edges", s)
			continue
		}
		assert.True(t, s.CanTransitionTo(StatusClosed), "status %s must be closable", s)
	}
}

func TestTicketStatus_TransitionTargetsAreKnown(t *testing.T) {
	for _, s := range AllStatuses() {
		for _, next := range s.AllowedTransitions() {
			assert.True(t, next.IsValid(), "%s -> %s points at an unknown status", s, next)
		}
	}
}

func TestTicketStatus_AllowedTransitionsIsACopy(t *testing.T) {
	allowed := StatusNew.AllowedTransitions()
	allowed[0] = StatusResolved

	assert.Equal(t, StatusTriaged, StatusNew.AllowedTransitions()[0])
}

func TestResolution_IsNonFix(t *testing.T) {
	assert.False(t, ResolutionFixed.IsNonFix())
	for _, r := range []Resolution{ResolutionWontFix, ResolutionDuplicate, ResolutionDeferred, ResolutionInvalid, ResolutionCannotReproduce} {
		assert.True(t, r.IsNonFix(), string(r))
	}
	assert.False(t, Resolution("meh").IsNonFix())
}

func TestTestingResult_NeedsRework(t *testing.T) {
	assert.False(t, TestingPass.NeedsRework())
	assert.True(t, TestingFail.NeedsRework())
	assert.True(t, TestingPartial.NeedsRework())

	_, err := NewTestingResult("flaky")
	assert.Error(t, err)
}

func TestEnums_RejectUnknownValues(t *testing.T) {
	_, err := NewTicketType("epic")
	assert.Error(t, err)
	_, err = NewPriority("urgent")
	assert.Error(t, err)
	_, err = NewSource("email")
	assert.Error(t, err)
	_, err = NewActivityType("note")
	assert.Error(t, err)
	_, err = NewVisibility("public")
	assert.Error(t, err)
	_, err = NewResolution("fixed_later")
	assert.Error(t, err)

	tt, err := NewTicketType("enhancement")
	require.NoError(t, err)
	assert.Equal(t, TypeEnhancement, tt)
}
