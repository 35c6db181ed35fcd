package usecases

import (
	"context"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type GetTicketQuery struct {
	Actor    authorization.Actor
	TicketID uint
}

type GetTicketUseCase struct {
	access ticketAccess
	logger logger.Interface
}

func NewGetTicketUseCase(
	tickets ticket.TicketRepository,
	perms PermissionChecker,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		access: ticketAccess{tickets: tickets, perms: perms},
		logger: logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionRead); err != nil {
		return nil, err
	}

	t, err := uc.access.load(ctx, query.Actor, query.TicketID)
	if err != nil {
		uc.logger.Debugw("ticket lookup failed", "ticket_id", query.TicketID, "error", err)
		return nil, err
	}
	return dto.ToTicketDTO(t, !query.Actor.IsReporter()), nil
}
