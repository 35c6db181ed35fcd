package usecases

import (
	"context"
	"time"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type PromoteActivityCommand struct {
	Actor      authorization.Actor
	TicketID   uint
	ActivityID uint
}

// PromoteActivityUseCase makes an internal entry visible to the reporter. It is
// the only mutation the log allows and it appends nothing.
type PromoteActivityUseCase struct {
	access     ticketAccess
	activities ticket.ActivityRepository
	logger     logger.Interface
}

func NewPromoteActivityUseCase(
	tickets ticket.TicketRepository,
	activities ticket.ActivityRepository,
	perms PermissionChecker,
	logger logger.Interface,
) *PromoteActivityUseCase {
	return &PromoteActivityUseCase{
		access:     ticketAccess{tickets: tickets, perms: perms},
		activities: activities,
		logger:     logger,
	}
}

func (uc *PromoteActivityUseCase) Execute(ctx context.Context, cmd PromoteActivityCommand) (*dto.ActivityDTO, error) {
	if err := uc.access.authorize(cmd.Actor, authorization.ActionPromote); err != nil {
		return nil, err
	}
	if _, err := uc.access.load(ctx, cmd.Actor, cmd.TicketID); err != nil {
		return nil, err
	}

	promoted, err := uc.activities.Promote(ctx, cmd.TicketID, cmd.ActivityID, cmd.Actor.DisplayName(), time.Now().UTC())
	if err != nil {
		uc.logger.Warnw("promote failed",
			"ticket_id", cmd.TicketID,
			"activity_id", cmd.ActivityID,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("activity promoted to user_visible",
		"ticket_id", cmd.TicketID,
		"activity_id", cmd.ActivityID,
		"approved_by", cmd.Actor.DisplayName(),
	)
	return dto.ToActivityDTO(promoted), nil
}
