package usecases

import (
	"context"
	"fmt"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/constants"
	"github.com/docket-dev/docket/internal/shared/errors"
)

// ticketAccess bundles the permission table lookup with the ownership rule
// every ticket-scoped operation shares.
type ticketAccess struct {
	tickets ticket.TicketRepository
	perms   PermissionChecker
}

func (a ticketAccess) authorize(actor authorization.Actor, action authorization.Action) error {
	if !actor.Scope.IsValid() {
		return errors.NewUnauthorizedError("authentication required")
	}
	ok, err := a.perms.Allowed(actor.Scope, action)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if !ok {
		return errors.NewForbiddenError(fmt.Sprintf("%s may not perform %s", actor.Scope, action))
	}
	return nil
}

// load fetches a live ticket the actor may see. A reporter asking for someone
// else's ticket gets the same not found as for a missing one.
func (a ticketAccess) load(ctx context.Context, actor authorization.Actor, ticketID uint) (*ticket.Ticket, error) {
	t, err := a.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessTicket(t.ReporterID()) {
		return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
	}
	return t, nil
}

// authorTypeOf maps the caller's scope onto the author recorded in the log.
func authorTypeOf(actor authorization.Actor) vo.AuthorType {
	switch actor.Scope {
	case authorization.ScopeAPIKey:
		return vo.AuthorAgent
	case authorization.ScopeAdminUI:
		return vo.AuthorAdmin
	default:
		return vo.AuthorUser
	}
}

// systemEntry builds the system activity that accompanies lifecycle events.
func systemEntry(ticketID uint, actor authorization.Actor, content string, meta ticket.SystemMetadata) (*ticket.Activity, error) {
	return ticket.NewActivity(ticket.NewActivityParams{
		TicketID:   ticketID,
		Type:       vo.ActivitySystem,
		AuthorType: vo.AuthorSystem,
		AuthorName: actor.DisplayName(),
		Content:    &content,
		Metadata:   meta,
		Visibility: vo.VisibilityUserVisible,
	})
}
