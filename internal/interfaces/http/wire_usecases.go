package http

import (
	"github.com/docket-dev/docket/internal/application/ticket/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	createTicketUC     *usecases.CreateTicketUseCase
	getTicketUC        *usecases.GetTicketUseCase
	updateTicketUC     *usecases.UpdateTicketUseCase
	deleteTicketUC     *usecases.DeleteTicketUseCase
	listTicketsUC      *usecases.ListTicketsUseCase
	recordActivityUC   *usecases.RecordActivityUseCase
	promoteActivityUC  *usecases.PromoteActivityUseCase
	getTimelineUC      *usecases.GetTimelineUseCase
	pipelineUC         *usecases.PipelineUseCase
	uploadAttachmentUC *usecases.UploadAttachmentUseCase
	listAttachmentsUC  *usecases.ListAttachmentsUseCase
}

// ============================================================
// Section 2: Ticket use cases
// ============================================================

func (c *Container) initUseCases() {
	log := c.log
	r := c.repos
	s := c.svcs

	c.ucs = &allUseCases{
		createTicketUC:     usecases.NewCreateTicketUseCase(r.ticketRepo, r.activityRepo, r.numberGen, s.enforcer, s.txMgr, log),
		getTicketUC:        usecases.NewGetTicketUseCase(r.ticketRepo, s.enforcer, log),
		updateTicketUC:     usecases.NewUpdateTicketUseCase(r.ticketRepo, r.activityRepo, s.enforcer, s.txMgr, log),
		deleteTicketUC:     usecases.NewDeleteTicketUseCase(r.ticketRepo, r.activityRepo, s.enforcer, s.txMgr, log),
		listTicketsUC:      usecases.NewListTicketsUseCase(r.ticketRepo, s.enforcer, log),
		recordActivityUC:   usecases.NewRecordActivityUseCase(r.ticketRepo, r.activityRepo, s.enforcer, s.txMgr, log),
		promoteActivityUC:  usecases.NewPromoteActivityUseCase(r.ticketRepo, r.activityRepo, s.enforcer, log),
		getTimelineUC:      usecases.NewGetTimelineUseCase(r.ticketRepo, r.activityRepo, s.enforcer, s.markdown, log),
		pipelineUC:         usecases.NewPipelineUseCase(r.ticketRepo, s.enforcer, log),
		uploadAttachmentUC: usecases.NewUploadAttachmentUseCase(r.ticketRepo, r.attachmentRepo, r.activityRepo, s.blobs, s.enforcer, s.txMgr, log),
		listAttachmentsUC:  usecases.NewListAttachmentsUseCase(r.ticketRepo, r.attachmentRepo, s.enforcer),
	}
}
