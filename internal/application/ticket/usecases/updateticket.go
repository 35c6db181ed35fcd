package usecases

import (
	"context"
	"fmt"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/db"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type UpdateTicketCommand struct {
	Actor    authorization.Actor
	TicketID uint
	Changes  ticket.Changes
}

type UpdateTicketResult struct {
	Ticket *dto.TicketDTO
	// Changes lists the fields that actually changed; empty means nothing was written.
	Changes []ticket.FieldChange
}

type UpdateTicketUseCase struct {
	access     ticketAccess
	tickets    ticket.TicketRepository
	activities ticket.ActivityRepository
	txMgr      db.Transactor
	logger     logger.Interface
}

func NewUpdateTicketUseCase(
	tickets ticket.TicketRepository,
	activities ticket.ActivityRepository,
	perms PermissionChecker,
	txMgr db.Transactor,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		access:     ticketAccess{tickets: tickets, perms: perms},
		tickets:    tickets,
		activities: activities,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error) {
	if err := uc.access.authorize(cmd.Actor, authorization.ActionUpdate); err != nil {
		return nil, err
	}

	if pid := cmd.Changes.ParentID; pid != nil && *pid != 0 && *pid != cmd.TicketID {
		if _, err := uc.tickets.GetByID(ctx, *pid); err != nil {
			if errors.IsNotFoundError(err) {
				return nil, errors.NewValidationError("parent ticket not found", fmt.Sprintf("parent_id=%d", *pid))
			}
			return nil, err
		}
	}

	var (
		updated *ticket.Ticket
		changes []ticket.FieldChange
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.access.load(txCtx, cmd.Actor, cmd.TicketID)
		if err != nil {
			return err
		}
		changes, err = t.ApplyChanges(cmd.Changes)
		if err != nil {
			return err
		}
		updated = t
		if len(changes) == 0 {
			return nil
		}

		if err := uc.tickets.Update(txCtx, t); err != nil {
			return err
		}
		entry, err := ticket.NewActivity(ticket.NewActivityParams{
			TicketID:   t.ID(),
			Type:       vo.ActivityFieldChange,
			AuthorType: authorTypeOf(cmd.Actor),
			AuthorName: cmd.Actor.DisplayName(),
			Metadata:   ticket.FieldChangeMetadata{Changes: changes},
			Visibility: vo.VisibilityInternal,
		})
		if err != nil {
			return err
		}
		return uc.activities.Append(txCtx, entry)
	})
	if txErr != nil {
		if !errors.IsAppError(txErr) {
			uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", txErr)
		}
		return nil, txErr
	}

	uc.logger.Infow("ticket updated", "ticket_id", cmd.TicketID, "changed_fields", len(changes))
	return &UpdateTicketResult{
		Ticket:  dto.ToTicketDTO(updated, true),
		Changes: changes,
	}, nil
}
