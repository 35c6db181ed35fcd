package usecases

import (
	"context"
	"time"

	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/db"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type DeleteTicketCommand struct {
	Actor    authorization.Actor
	TicketID uint
}

// DeleteTicketUseCase soft-deletes a ticket. The history stays in place and a
// system entry records who removed it.
type DeleteTicketUseCase struct {
	access     ticketAccess
	tickets    ticket.TicketRepository
	activities ticket.ActivityRepository
	txMgr      db.Transactor
	logger     logger.Interface
}

func NewDeleteTicketUseCase(
	tickets ticket.TicketRepository,
	activities ticket.ActivityRepository,
	perms PermissionChecker,
	txMgr db.Transactor,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		access:     ticketAccess{tickets: tickets, perms: perms},
		tickets:    tickets,
		activities: activities,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	if err := uc.access.authorize(cmd.Actor, authorization.ActionDelete); err != nil {
		return err
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.access.load(txCtx, cmd.Actor, cmd.TicketID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := t.MarkDeleted(now); err != nil {
			return err
		}

		entry, err := systemEntry(t.ID(), cmd.Actor, "Ticket deleted", ticket.SystemMetadata{
			Event:        ticket.SystemEventDeleted,
			TicketNumber: t.TicketNumber(),
			Status:       t.Status().String(),
		})
		if err != nil {
			return err
		}
		if err := uc.activities.Append(txCtx, entry); err != nil {
			return err
		}
		return uc.tickets.SoftDelete(txCtx, t.ID(), now)
	})
	if txErr != nil {
		if !errors.IsAppError(txErr) {
			uc.logger.Errorw("failed to delete ticket", "ticket_id", cmd.TicketID, "error", txErr)
		}
		return txErr
	}

	uc.logger.Infow("ticket deleted", "ticket_id", cmd.TicketID, "by", cmd.Actor.DisplayName())
	return nil
}
