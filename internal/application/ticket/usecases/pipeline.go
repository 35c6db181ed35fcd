package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/constants"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type PipelineQuery struct {
	Actor     authorization.Actor
	ProjectID string
	// BatchSize only applies to TriageBatch; zero means the default of 3.
	BatchSize int
}

// PipelineUseCase serves the read-only dashboard views over the snapshots.
type PipelineUseCase struct {
	access  ticketAccess
	tickets ticket.TicketRepository
	now     func() time.Time
	logger  logger.Interface
}

func NewPipelineUseCase(
	tickets ticket.TicketRepository,
	perms PermissionChecker,
	logger logger.Interface,
) *PipelineUseCase {
	return &PipelineUseCase{
		access:  ticketAccess{tickets: tickets, perms: perms},
		tickets: tickets,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}
}

func (uc *PipelineUseCase) Counts(ctx context.Context, query PipelineQuery) (*dto.PipelineCountsDTO, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionPipeline); err != nil {
		return nil, err
	}
	byStatus, err := uc.tickets.CountByStatus(ctx, project(query))
	if err != nil {
		uc.logger.Errorw("failed to count tickets by status", "error", err)
		return nil, err
	}
	counts := dto.ToPipelineCounts(byStatus)
	return &counts, nil
}

func (uc *PipelineUseCase) Stats(ctx context.Context, query PipelineQuery) (*dto.StatsDTO, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionPipeline); err != nil {
		return nil, err
	}
	projectID := project(query)

	byStatus, err := uc.tickets.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	byType, err := uc.tickets.CountByType(ctx, projectID)
	if err != nil {
		return nil, err
	}
	byPriority, err := uc.tickets.CountByPriority(ctx, projectID)
	if err != nil {
		return nil, err
	}

	pipeline := dto.ToPipelineCounts(byStatus)
	return &dto.StatsDTO{
		Total:      pipeline.Total(),
		Pipeline:   pipeline,
		ByStatus:   stringKeys(byStatus),
		ByType:     stringKeys(byType),
		ByPriority: stringKeys(byPriority),
	}, nil
}

// WorkQueue lists approved tickets by work priority, unprioritized last.
func (uc *PipelineUseCase) WorkQueue(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error) {
	return uc.list(ctx, query, func(ctx context.Context, projectID string) ([]*ticket.Ticket, error) {
		return uc.tickets.ListWorkQueue(ctx, projectID)
	})
}

// Rework lists tickets whose last test failed or partially passed.
func (uc *PipelineUseCase) Rework(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error) {
	return uc.list(ctx, query, uc.tickets.ListRework)
}

// FollowUps lists tickets whose follow-up reminder is due.
func (uc *PipelineUseCase) FollowUps(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error) {
	return uc.list(ctx, query, func(ctx context.Context, projectID string) ([]*ticket.Ticket, error) {
		return uc.tickets.ListFollowUps(ctx, projectID, uc.now())
	})
}

// TriageBatch returns the oldest untriaged tickets.
func (uc *PipelineUseCase) TriageBatch(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error) {
	size := query.BatchSize
	if size <= 0 {
		size = constants.DefaultTriageBatchSize
	}
	if size > constants.MaxTriageBatchSize {
		size = constants.MaxTriageBatchSize
	}
	return uc.list(ctx, query, func(ctx context.Context, projectID string) ([]*ticket.Ticket, error) {
		return uc.tickets.ListOldestNew(ctx, projectID, size)
	})
}

func (uc *PipelineUseCase) list(
	ctx context.Context,
	query PipelineQuery,
	fetch func(ctx context.Context, projectID string) ([]*ticket.Ticket, error),
) ([]*dto.TicketDTO, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionPipeline); err != nil {
		return nil, err
	}
	tickets, err := fetch(ctx, project(query))
	if err != nil {
		uc.logger.Errorw("failed to load pipeline view", "error", err)
		return nil, err
	}
	return dto.ToTicketDTOs(tickets, true), nil
}

func project(query PipelineQuery) string {
	return strings.TrimSpace(query.ProjectID)
}

func stringKeys[K ~string](in map[K]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}
