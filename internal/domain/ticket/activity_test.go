package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
)

func strPtr(s string) *string { return &s }

func newMessage(t *testing.T, visibility vo.Visibility, requiresApproval bool) *Activity {
	t.Helper()
	a, err := NewActivity(NewActivityParams{
		TicketID:         1,
		Type:             vo.ActivityMessage,
		AuthorType:       vo.AuthorAgent,
		AuthorName:       "fixer-bot",
		Content:          strPtr("Can you retry with cache cleared?"),
		Visibility:       visibility,
		RequiresApproval: requiresApproval,
	})
	require.NoError(t, err)
	require.NoError(t, a.SetID(10))
	return a
}

func TestNewActivity_Validation(t *testing.T) {
	_, err := NewActivity(NewActivityParams{Type: vo.ActivityComment, AuthorType: vo.AuthorAdmin, Visibility: vo.VisibilityInternal})
	assert.Error(t, err, "ticket id required")

	_, err = NewActivity(NewActivityParams{TicketID: 1, Type: "note", AuthorType: vo.AuthorAdmin, Visibility: vo.VisibilityInternal})
	assert.Error(t, err)

	_, err = NewActivity(NewActivityParams{
		TicketID:   1,
		Type:       vo.ActivityComment,
		AuthorType: vo.AuthorAdmin,
		Visibility: vo.VisibilityInternal,
		Metadata:   TestResultMetadata{Result: "pass"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata for test_result attached to comment entry")
}

func TestNewActivity_RejectsInvalidMetadata(t *testing.T) {
	tests := []struct {
		name     string
		typ      vo.ActivityType
		metadata Metadata
		field    string
	}{
		{"unknown decision", vo.ActivityDecision, DecisionMetadata{Decision: "bogus", From: "new", To: "triaged"}, "decision"},
		{"reject without reason", vo.ActivityDecision, DecisionMetadata{Decision: DecisionReject, From: "new", To: "closed", Resolution: "wont_fix"}, "reason"},
		{"unknown test result", vo.ActivityTestResult, TestResultMetadata{Result: "maybe"}, "result"},
		{"status change without target", vo.ActivityStatusChange, StatusChangeMetadata{From: "new"}, "to"},
		{"empty field change", vo.ActivityFieldChange, FieldChangeMetadata{}, "changes"},
		{"unknown system event", vo.ActivitySystem, SystemMetadata{Event: "exploded"}, "event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewActivity(NewActivityParams{
				TicketID:   1,
				Type:       tt.typ,
				AuthorType: vo.AuthorAgent,
				Visibility: vo.VisibilityInternal,
				Metadata:   tt.metadata,
			})
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNewActivity_AcceptsValidMetadata(t *testing.T) {
	a, err := NewActivity(NewActivityParams{
		TicketID:   1,
		Type:       vo.ActivityDecision,
		AuthorType: vo.AuthorAdmin,
		Visibility: vo.VisibilityInternal,
		Metadata:   DecisionMetadata{Decision: DecisionReject, From: "new", To: "closed", Resolution: "wont_fix", Reason: "out of scope"},
	})
	require.NoError(t, err)
	assert.Equal(t, DecisionReject, a.Metadata().(DecisionMetadata).Decision)
}

func TestNewActivity_DefaultsAuthorName(t *testing.T) {
	a, err := NewActivity(NewActivityParams{TicketID: 1, Type: vo.ActivitySystem, AuthorType: vo.AuthorSystem, Visibility: vo.VisibilityUserVisible})
	require.NoError(t, err)
	assert.Equal(t, "system", a.AuthorName())
	assert.Equal(t, "", a.ContentText())
}

func TestActivity_IsVisibleToReporter(t *testing.T) {
	assert.False(t, newMessage(t, vo.VisibilityInternal, false).IsVisibleToReporter())
	assert.False(t, newMessage(t, vo.VisibilityInternal, true).IsVisibleToReporter())
	assert.True(t, newMessage(t, vo.VisibilityUserVisible, false).IsVisibleToReporter())

	// user_visible but never approved stays hidden
	unapproved, err := ReconstructActivity(ActivityState{
		ID:               3,
		TicketID:         1,
		Type:             vo.ActivityMessage,
		AuthorType:       vo.AuthorAgent,
		Visibility:       vo.VisibilityUserVisible,
		RequiresApproval: true,
		CreatedAt:        time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, unapproved.IsVisibleToReporter())
}

func TestActivity_Promote(t *testing.T) {
	a := newMessage(t, vo.VisibilityInternal, true)
	at := time.Now()

	require.NoError(t, a.Promote("ana@admin", at))
	assert.Equal(t, vo.VisibilityUserVisible, a.Visibility())
	require.NotNil(t, a.ApprovedBy())
	assert.Equal(t, "ana@admin", *a.ApprovedBy())
	require.NotNil(t, a.ApprovedAt())
	assert.True(t, a.IsVisibleToReporter())

	err := a.Promote("ana@admin", at)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestActivity_PromoteNeedsApprover(t *testing.T) {
	a := newMessage(t, vo.VisibilityInternal, true)

	err := a.Promote(" ", time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, vo.VisibilityInternal, a.Visibility())
}
