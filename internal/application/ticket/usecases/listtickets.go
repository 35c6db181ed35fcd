package usecases

import (
	"context"
	"strings"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/constants"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

var listSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"work_priority": true,
	"ticket_number": true,
}

type ListTicketsQuery struct {
	Actor         authorization.Actor
	ProjectID     string
	Statuses      []string
	Types         []string
	Priorities    []string
	Assignee      string
	ReporterID    string
	NeedsFollowup *bool
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

type ListTicketsResult struct {
	Tickets  []*dto.TicketDTO
	Total    int64
	Page     int
	PageSize int
}

type ListTicketsUseCase struct {
	access  ticketAccess
	tickets ticket.TicketRepository
	logger  logger.Interface
}

func NewListTicketsUseCase(
	tickets ticket.TicketRepository,
	perms PermissionChecker,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		access:  ticketAccess{tickets: tickets, perms: perms},
		tickets: tickets,
		logger:  logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionList); err != nil {
		return nil, err
	}

	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	tickets, total, err := uc.tickets.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, err
	}

	return &ListTicketsResult{
		Tickets:  dto.ToTicketDTOs(tickets, !query.Actor.IsReporter()),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (uc *ListTicketsUseCase) buildFilter(query ListTicketsQuery) (ticket.TicketFilter, error) {
	filter := ticket.TicketFilter{
		ProjectID:     strings.TrimSpace(query.ProjectID),
		Assignee:      strings.TrimSpace(query.Assignee),
		ReporterID:    strings.TrimSpace(query.ReporterID),
		NeedsFollowup: query.NeedsFollowup,
		Search:        strings.TrimSpace(query.Search),
		Page:          query.Page,
		PageSize:      query.PageSize,
		SortOrder:     strings.ToLower(query.SortOrder),
	}

	if query.Actor.IsReporter() {
		if query.Actor.ID == "" {
			return filter, errors.NewForbiddenError("reporter identity required")
		}
		filter.ReporterID = query.Actor.ID
		if query.Actor.ProjectID != "" {
			filter.ProjectID = query.Actor.ProjectID
		}
	}

	var err error
	if filter.Statuses, err = parseEnums(query.Statuses, "status", vo.NewTicketStatus); err != nil {
		return filter, err
	}
	if filter.Types, err = parseEnums(query.Types, "ticket_type", vo.NewTicketType); err != nil {
		return filter, err
	}
	if filter.Priorities, err = parseEnums(query.Priorities, "priority", vo.NewPriority); err != nil {
		return filter, err
	}

	if query.SortBy != "" {
		if !listSortFields[query.SortBy] {
			return filter, errors.NewValidationError("invalid sort_by", "one of: created_at, updated_at, work_priority, ticket_number")
		}
		filter.SortBy = query.SortBy
	}
	if filter.SortOrder != "" && filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		return filter, errors.NewValidationError("invalid sort_order", "one of: asc, desc")
	}

	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	return filter, nil
}

// parseEnums validates every comma separated value of a multi-value filter.
func parseEnums[T ~string](raw []string, field string, parse func(string) (T, error)) ([]T, error) {
	var out []T
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := parse(part)
			if err != nil {
				return nil, errors.NewValidationError("invalid "+field, part)
			}
			out = append(out, v)
		}
	}
	return out, nil
}
