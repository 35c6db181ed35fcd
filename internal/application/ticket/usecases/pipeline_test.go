package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

func TestPipelineUseCase_CountsPartitionEveryStatus(t *testing.T) {
	repo := &mockTicketRepository{CountByStatusFunc: func(context.Context, string) (map[vo.TicketStatus]int64, error) {
		return map[vo.TicketStatus]int64{
			vo.StatusNew:        4,
			vo.StatusTriaged:    3,
			vo.StatusApproved:   1,
			vo.StatusInProgress: 2,
			vo.StatusInReview:   1,
			vo.StatusUserReview: 5,
			vo.StatusResolved:   6,
			vo.StatusClosed:     7,
		}, nil
	}}
	uc := NewPipelineUseCase(repo, policyChecker{}, logger.NewNopLogger())

	counts, err := uc.Counts(context.Background(), PipelineQuery{Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts.Untriaged)
	assert.Equal(t, int64(3), counts.YourDecision)
	assert.Equal(t, int64(29), counts.Total())
	assert.Equal(t, counts.Untriaged+counts.YourDecision+counts.AgentWorking+counts.Testing+counts.UserReview+counts.Done, counts.Total())
}

func TestPipelineUseCase_Stats(t *testing.T) {
	var projects []string
	repo := &mockTicketRepository{
		CountByStatusFunc: func(_ context.Context, projectID string) (map[vo.TicketStatus]int64, error) {
			projects = append(projects, projectID)
			return map[vo.TicketStatus]int64{vo.StatusNew: 2, vo.StatusClosed: 1}, nil
		},
		CountByTypeFunc: func(context.Context, string) (map[vo.TicketType]int64, error) {
			return map[vo.TicketType]int64{vo.TypeBug: 2, vo.TypeFeature: 1}, nil
		},
		CountByPriorityFunc: func(context.Context, string) (map[vo.Priority]int64, error) {
			return map[vo.Priority]int64{vo.PriorityHigh: 3}, nil
		},
	}
	uc := NewPipelineUseCase(repo, policyChecker{}, logger.NewNopLogger())

	stats, err := uc.Stats(context.Background(), PipelineQuery{Actor: agent, ProjectID: " web "})
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, projects)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus["new"])
	assert.Equal(t, int64(2), stats.ByType["bug"])
	assert.Equal(t, int64(3), stats.ByPriority["high"])
	assert.Equal(t, int64(2), stats.Pipeline.Untriaged)
}

func TestPipelineUseCase_TriageBatchSize(t *testing.T) {
	var limits []int
	repo := &mockTicketRepository{ListOldestNewFunc: func(_ context.Context, _ string, limit int) ([]*ticket.Ticket, error) {
		limits = append(limits, limit)
		return nil, nil
	}}
	uc := NewPipelineUseCase(repo, policyChecker{}, logger.NewNopLogger())

	for _, size := range []int{0, -1, 7, 1000} {
		_, err := uc.TriageBatch(context.Background(), PipelineQuery{Actor: agent, BatchSize: size})
		require.NoError(t, err)
	}
	assert.Equal(t, []int{3, 3, 7, 50}, limits)
}

func TestPipelineUseCase_FollowUpsUseClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var got time.Time
	repo := &mockTicketRepository{ListFollowUpsFunc: func(_ context.Context, _ string, now time.Time) ([]*ticket.Ticket, error) {
		got = now
		return nil, nil
	}}
	uc := NewPipelineUseCase(repo, policyChecker{}, logger.NewNopLogger())
	uc.now = func() time.Time { return fixed }

	items, err := uc.FollowUps(context.Background(), PipelineQuery{Actor: admin})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, fixed, got)
}

func TestPipelineUseCase_WorkQueueReturnsStaffView(t *testing.T) {
	f := newActivityFixture(t)
	f.mustDo(t, agent, "triage", ActivityInput{})
	f.mustDo(t, admin, "approve", ActivityInput{WorkPriority: ptr(1)})

	repo := &mockTicketRepository{ListWorkQueueFunc: func(context.Context, string) ([]*ticket.Ticket, error) {
		return []*ticket.Ticket{f.store.tickets[f.ticketID]}, nil
	}}
	uc := NewPipelineUseCase(repo, policyChecker{}, logger.NewNopLogger())

	items, err := uc.WorkQueue(context.Background(), PipelineQuery{Actor: agent})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].TicketWorkflowDTO)
	assert.Equal(t, 1, *items[0].WorkPriority)
}

func TestPipelineUseCase_ReporterForbidden(t *testing.T) {
	uc := NewPipelineUseCase(&mockTicketRepository{}, policyChecker{}, logger.NewNopLogger())
	ctx := context.Background()
	q := PipelineQuery{Actor: reporter}

	_, err := uc.Counts(ctx, q)
	assert.True(t, errors.IsForbiddenError(err))
	_, err = uc.Stats(ctx, q)
	assert.True(t, errors.IsForbiddenError(err))
	_, err = uc.WorkQueue(ctx, q)
	assert.True(t, errors.IsForbiddenError(err))
	_, err = uc.Rework(ctx, q)
	assert.True(t, errors.IsForbiddenError(err))
	_, err = uc.FollowUps(ctx, q)
	assert.True(t, errors.IsForbiddenError(err))
	_, err = uc.TriageBatch(ctx, q)
	assert.True(t, errors.IsForbiddenError(err))
}
