package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/db"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type CreateTicketCommand struct {
	Actor             authorization.Actor
	ProjectID         string
	Title             string
	Description       string
	Source            string
	TicketType        string
	Priority          string
	Tags              []string
	Route             string
	Environment       string
	BrowserInfo       string
	OSInfo            string
	ReporterID        string
	ReporterName      string
	ReporterEmail     string
	ParentID          *uint
	ClientReferenceID *string
}

type CreateTicketResult struct {
	Ticket *dto.TicketDTO
	// Created is false when an earlier ticket with the same client reference was returned.
	Created bool
}

type CreateTicketUseCase struct {
	access     ticketAccess
	tickets    ticket.TicketRepository
	activities ticket.ActivityRepository
	numbers    ticket.NumberGenerator
	txMgr      db.Transactor
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	tickets ticket.TicketRepository,
	activities ticket.ActivityRepository,
	numbers ticket.NumberGenerator,
	perms PermissionChecker,
	txMgr db.Transactor,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		access:     ticketAccess{tickets: tickets, perms: perms},
		tickets:    tickets,
		activities: activities,
		numbers:    numbers,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	if err := uc.access.authorize(cmd.Actor, authorization.ActionCreate); err != nil {
		return nil, err
	}

	if cmd.Actor.IsReporter() {
		if cmd.Actor.ID != "" {
			cmd.ReporterID = cmd.Actor.ID
		}
		if cmd.Actor.ProjectID != "" {
			cmd.ProjectID = cmd.Actor.ProjectID
		}
		if cmd.ReporterName == "" {
			cmd.ReporterName = cmd.Actor.Name
		}
	}

	uc.logger.Infow("executing create ticket use case",
		"project_id", cmd.ProjectID,
		"reporter_id", cmd.ReporterID,
		"scope", cmd.Actor.Scope,
	)

	newTicket, err := ticket.NewTicket(ticket.NewTicketParams{
		ProjectID:   strings.TrimSpace(cmd.ProjectID),
		Title:       cmd.Title,
		Description: cmd.Description,
		Source:      vo.Source(cmd.Source),
		TicketType:  vo.TicketType(cmd.TicketType),
		Priority:    vo.Priority(cmd.Priority),
		Tags:        cmd.Tags,
		Client: ticket.ClientContext{
			Route:       cmd.Route,
			Environment: cmd.Environment,
			BrowserInfo: cmd.BrowserInfo,
			OSInfo:      cmd.OSInfo,
		},
		Reporter: ticket.ReporterInfo{
			ID:    strings.TrimSpace(cmd.ReporterID),
			Name:  cmd.ReporterName,
			Email: cmd.ReporterEmail,
		},
		ParentID:          cmd.ParentID,
		ClientReferenceID: cmd.ClientReferenceID,
	})
	if err != nil {
		uc.logger.Warnw("invalid create ticket command", "error", err)
		return nil, err
	}

	if ref := newTicket.ClientReferenceID(); ref != nil {
		existing, err := uc.tickets.GetByClientReference(ctx, newTicket.ProjectID(), *ref)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return uc.replay(existing, cmd.Actor)
		}
	}

	if pid := newTicket.ParentID(); pid != nil {
		if _, err := uc.tickets.GetByID(ctx, *pid); err != nil {
			if errors.IsNotFoundError(err) {
				return nil, errors.NewValidationError("parent ticket not found", fmt.Sprintf("parent_id=%d", *pid))
			}
			return nil, err
		}
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		number, err := uc.numbers.Next(txCtx)
		if err != nil {
			return fmt.Errorf("failed to allocate ticket number: %w", err)
		}
		if err := newTicket.SetTicketNumber(number); err != nil {
			return err
		}
		if err := uc.tickets.Create(txCtx, newTicket); err != nil {
			return err
		}

		entry, err := systemEntry(newTicket.ID(), cmd.Actor, "Ticket created", ticket.SystemMetadata{
			Event:        ticket.SystemEventCreated,
			TicketNumber: newTicket.TicketNumber(),
			Status:       newTicket.Status().String(),
			Priority:     newTicket.Priority().String(),
			TicketType:   newTicket.TicketType().String(),
			Source:       newTicket.Source().String(),
		})
		if err != nil {
			return err
		}
		return uc.activities.Append(txCtx, entry)
	})
	if txErr != nil {
		ref := newTicket.ClientReferenceID()
		if ref != nil && errors.IsDuplicateError(txErr) {
			// Lost the race on (project_id, client_reference_id); the winner is committed.
			existing, err := uc.tickets.GetByClientReference(ctx, newTicket.ProjectID(), *ref)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				uc.logger.Infow("concurrent create resolved to existing ticket", "ticket_id", existing.ID())
				return uc.replay(existing, cmd.Actor)
			}
		}
		uc.logger.Errorw("failed to create ticket", "error", txErr)
		return nil, txErr
	}

	uc.logger.Infow("ticket created successfully",
		"ticket_id", newTicket.ID(),
		"ticket_number", newTicket.TicketNumber(),
	)
	return &CreateTicketResult{
		Ticket:  dto.ToTicketDTO(newTicket, !cmd.Actor.IsReporter()),
		Created: true,
	}, nil
}

// replay answers a repeated submission with the ticket it already produced.
func (uc *CreateTicketUseCase) replay(existing *ticket.Ticket, actor authorization.Actor) (*CreateTicketResult, error) {
	if existing.IsDeleted() {
		return nil, errors.NewConflictError("client_reference_id belongs to a deleted ticket")
	}
	if actor.IsReporter() && !actor.Owns(existing.ReporterID()) {
		return nil, errors.NewConflictError("client_reference_id is already in use")
	}
	uc.logger.Infow("idempotent create returned existing ticket", "ticket_id", existing.ID())
	return &CreateTicketResult{
		Ticket:  dto.ToTicketDTO(existing, !actor.IsReporter()),
		Created: false,
	}, nil
}
