package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	apperrors "github.com/docket-dev/docket/internal/shared/errors"
)

func ptr[T any](v T) *T { return &v }

func TestTicketRepository_CreateAndGet(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()

	tk := newTestTicket(t, "acme", "Login button does nothing")
	require.NoError(t, tk.Triage(ticket.AIAssessment{Summary: "handler missing", AffectedFiles: []string{"login.tsx"}}))
	require.NoError(t, repo.Create(ctx, tk))
	require.NotZero(t, tk.ID())

	found, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, tk.Title(), found.Title())
	assert.Equal(t, tk.TicketNumber(), found.TicketNumber())
	assert.Equal(t, vo.StatusTriaged, found.Status())
	assert.Equal(t, []string{"ui"}, found.Tags())
	assert.Equal(t, "handler missing", found.AI().Summary)
	assert.Equal(t, []string{"login.tsx"}, found.AI().AffectedFiles)
	assert.Equal(t, "reporter-1", found.ReporterID())
	assert.Nil(t, found.ClientReferenceID())
}

func TestTicketRepository_GetByIDNotFound(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestTicketRepository_ClientReferenceIsUniquePerProject(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()

	withRef := func(project, title string) *ticket.Ticket {
		tk, err := ticket.NewTicket(ticket.NewTicketParams{
			ProjectID:         project,
			Title:             title,
			Description:       "d",
			TicketType:        vo.TypeBug,
			Reporter:          ticket.ReporterInfo{ID: "r"},
			ClientReferenceID: ptr("abc-123"),
		})
		require.NoError(t, err)
		nextNumber++
		require.NoError(t, tk.SetTicketNumber(nextNumber))
		return tk
	}

	first := withRef("acme", "first")
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, withRef("acme", "second"))
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateError(err))

	require.NoError(t, repo.Create(ctx, withRef("globex", "other project")))

	found, err := repo.GetByClientReference(ctx, "acme", "abc-123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID(), found.ID())

	missing, err := repo.GetByClientReference(ctx, "acme", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketRepository_UpdateWritesZeroValues(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()

	tk := newTestTicket(t, "", "Follow me up")
	after := time.Now().Add(time.Hour)
	tk.ScheduleFollowup(true, "ping in an hour", &after)
	require.NoError(t, repo.Create(ctx, tk))

	tk.ScheduleFollowup(false, "", nil)
	_, err := tk.ChangeStatus(vo.StatusClosed)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, tk))

	found, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.False(t, found.NeedsFollowup())
	assert.Empty(t, found.FollowupNotes())
	assert.Nil(t, found.FollowupAfter())
	assert.Equal(t, vo.StatusClosed, found.Status())
}

func TestTicketRepository_SoftDelete(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()

	tk := newTestTicket(t, "", "Delete me")
	require.NoError(t, repo.Create(ctx, tk))
	require.NoError(t, repo.SoftDelete(ctx, tk.ID(), time.Now().UTC()))

	_, err := repo.GetByID(ctx, tk.ID())
	assert.True(t, apperrors.IsNotFoundError(err))

	err = repo.SoftDelete(ctx, tk.ID(), time.Now().UTC())
	assert.True(t, apperrors.IsNotFoundError(err))

	items, total, err := repo.List(ctx, ticket.TicketFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestTicketRepository_ListFilters(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()

	crash := newTestTicket(t, "acme", "App crashes on save")
	require.NoError(t, repo.Create(ctx, crash))

	typo := newTestTicket(t, "acme", "Typo in footer")
	require.NoError(t, typo.Triage(ticket.AIAssessment{}))
	typo.Assign("agent-7")
	require.NoError(t, repo.Create(ctx, typo))

	percent := newTestTicket(t, "globex", "Shows 100% progress too early")
	require.NoError(t, repo.Create(ctx, percent))

	tests := []struct {
		name   string
		filter ticket.TicketFilter
		want   []uint
	}{
		{"project", ticket.TicketFilter{ProjectID: "acme", SortBy: "ticket_number"}, []uint{crash.ID(), typo.ID()}},
		{"status", ticket.TicketFilter{Statuses: []vo.TicketStatus{vo.StatusTriaged}}, []uint{typo.ID()}},
		{"assignee", ticket.TicketFilter{Assignee: "agent-7"}, []uint{typo.ID()}},
		{"search is case insensitive", ticket.TicketFilter{Search: "CRASHES"}, []uint{crash.ID()}},
		{"search escapes wildcards", ticket.TicketFilter{Search: "100%"}, []uint{percent.ID()}},
		{"sort desc", ticket.TicketFilter{SortBy: "ticket_number", SortOrder: "desc"}, []uint{percent.ID(), typo.ID(), crash.ID()}},
		{"page", ticket.TicketFilter{SortBy: "ticket_number", Page: 2, PageSize: 2}, []uint{percent.ID()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, _, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]uint, len(items))
			for i, it := range items {
				ids[i] = it.ID()
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, total, err := repo.List(ctx, ticket.TicketFilter{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestTicketRepository_WorkQueueNullsLast(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()

	approve := func(title string, wp *int) *ticket.Ticket {
		tk := newTestTicket(t, "", title)
		require.NoError(t, tk.Triage(ticket.AIAssessment{}))
		require.NoError(t, tk.Approve("go", wp))
		require.NoError(t, repo.Create(ctx, tk))
		return tk
	}

	unranked := approve("unranked", nil)
	second := approve("second", ptr(5))
	first := approve("first", ptr(1))
	require.NoError(t, repo.Create(ctx, newTestTicket(t, "", "still new")))

	queue, err := repo.ListWorkQueue(ctx, "")
	require.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, first.ID(), queue[0].ID())
	assert.Equal(t, second.ID(), queue[1].ID())
	assert.Equal(t, unranked.ID(), queue[2].ID())
}

func TestTicketRepository_ReworkFollowUpsAndTriageBatch(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	failed := newTestTicket(t, "", "failed")
	require.NoError(t, failed.RecordTestResult(vo.TestingFail))
	require.NoError(t, repo.Create(ctx, failed))

	passed := newTestTicket(t, "", "passed")
	require.NoError(t, passed.RecordTestResult(vo.TestingPass))
	require.NoError(t, repo.Create(ctx, passed))

	due := newTestTicket(t, "", "due")
	past := now.Add(-time.Hour)
	due.ScheduleFollowup(true, "check back", &past)
	require.NoError(t, repo.Create(ctx, due))

	later := newTestTicket(t, "", "later")
	future := now.Add(time.Hour)
	later.ScheduleFollowup(true, "not yet", &future)
	require.NoError(t, repo.Create(ctx, later))

	rework, err := repo.ListRework(ctx, "")
	require.NoError(t, err)
	require.Len(t, rework, 1)
	assert.Equal(t, failed.ID(), rework[0].ID())

	followUps, err := repo.ListFollowUps(ctx, "", now)
	require.NoError(t, err)
	require.Len(t, followUps, 1)
	assert.Equal(t, due.ID(), followUps[0].ID())

	batch, err := repo.ListOldestNew(ctx, "", 3)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	assert.Equal(t, failed.ID(), batch[0].ID())
	assert.Equal(t, passed.ID(), batch[1].ID())
	assert.Equal(t, due.ID(), batch[2].ID())
}

func TestTicketRepository_Counts(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	ctx := context.Background()

	for _, title := range []string{"a", "b"} {
		require.NoError(t, repo.Create(ctx, newTestTicket(t, "acme", title)))
	}
	triaged := newTestTicket(t, "acme", "c")
	require.NoError(t, triaged.Triage(ticket.AIAssessment{}))
	require.NoError(t, repo.Create(ctx, triaged))
	require.NoError(t, repo.Create(ctx, newTestTicket(t, "globex", "d")))

	byStatus, err := repo.CountByStatus(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, map[vo.TicketStatus]int64{vo.StatusNew: 2, vo.StatusTriaged: 1}, byStatus)

	byType, err := repo.CountByType(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), byType[vo.TypeBug])

	byPriority, err := repo.CountByPriority(ctx, "globex")
	require.NoError(t, err)
	assert.Equal(t, map[vo.Priority]int64{vo.PriorityMedium: 1}, byPriority)
}
