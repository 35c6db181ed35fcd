package usecases

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/db"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

// ActivityInput carries the union of every action's arguments. Each handler
// reads only the fields it needs.
type ActivityInput struct {
	Content          string
	RequiresApproval bool

	Result  string
	Details string

	Status string
	Note   string

	Direction    string
	WorkPriority *int

	Resolution string
	Reason     string

	ResolutionNotes     string
	TestingInstructions string
	TestingURL          string

	AI ticket.AIAssessment

	Assignee string

	NeedsFollowup bool
	FollowupNotes string
	FollowupAfter *time.Time
}

type RecordActivityCommand struct {
	Actor    authorization.Actor
	TicketID uint
	Action   string
	Input    ActivityInput
}

type RecordActivityResult struct {
	Activity *dto.ActivityDTO `json:"activity"`
	Ticket   *dto.TicketDTO   `json:"ticket"`
}

// RecordActivityUseCase dispatches POST /tickets/:id/activity by action name.
// The snapshot change and the log entry commit in one transaction.
type RecordActivityUseCase struct {
	access     ticketAccess
	tickets    ticket.TicketRepository
	activities ticket.ActivityRepository
	txMgr      db.Transactor
	handlers   map[authorization.Action]activityHandler
	logger     logger.Interface
}

func NewRecordActivityUseCase(
	tickets ticket.TicketRepository,
	activities ticket.ActivityRepository,
	perms PermissionChecker,
	txMgr db.Transactor,
	logger logger.Interface,
) *RecordActivityUseCase {
	return &RecordActivityUseCase{
		access:     ticketAccess{tickets: tickets, perms: perms},
		tickets:    tickets,
		activities: activities,
		txMgr:      txMgr,
		handlers:   activityHandlers(),
		logger:     logger,
	}
}

// Actions lists the action names the dispatcher accepts, sorted.
func (uc *RecordActivityUseCase) Actions() []string {
	names := make([]string, 0, len(uc.handlers))
	for action := range uc.handlers {
		names = append(names, action.String())
	}
	slices.Sort(names)
	return names
}

func (uc *RecordActivityUseCase) Execute(ctx context.Context, cmd RecordActivityCommand) (*RecordActivityResult, error) {
	action := authorization.Action(strings.TrimSpace(cmd.Action))
	handle, ok := uc.handlers[action]
	if !ok {
		return nil, errors.NewValidationError("unknown action", "one of: "+strings.Join(uc.Actions(), ", "))
	}
	if err := uc.access.authorize(cmd.Actor, action); err != nil {
		uc.logger.Warnw("activity action denied",
			"ticket_id", cmd.TicketID,
			"action", action,
			"scope", cmd.Actor.Scope,
		)
		return nil, err
	}

	var (
		entry *ticket.Activity
		snap  *ticket.Ticket
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.access.load(txCtx, cmd.Actor, cmd.TicketID)
		if err != nil {
			return err
		}

		params, mutated, err := handle(t, cmd.Actor, cmd.Input)
		if err != nil {
			return err
		}
		params.TicketID = t.ID()
		if params.AuthorType == "" {
			params.AuthorType = authorTypeOf(cmd.Actor)
		}
		if params.AuthorName == "" {
			params.AuthorName = cmd.Actor.DisplayName()
		}

		entry, err = ticket.NewActivity(params)
		if err != nil {
			return err
		}
		if mutated {
			if err := uc.tickets.Update(txCtx, t); err != nil {
				return err
			}
		}
		snap = t
		return uc.activities.Append(txCtx, entry)
	})
	if txErr != nil {
		if !errors.IsAppError(txErr) {
			uc.logger.Errorw("failed to record activity",
				"ticket_id", cmd.TicketID,
				"action", action,
				"error", txErr,
			)
		}
		return nil, txErr
	}

	uc.logger.Infow("activity recorded",
		"ticket_id", cmd.TicketID,
		"action", action,
		"activity_id", entry.ID(),
		"status", snap.Status(),
	)
	return &RecordActivityResult{
		Activity: dto.ToActivityDTO(entry),
		Ticket:   dto.ToTicketDTO(snap, !cmd.Actor.IsReporter()),
	}, nil
}
