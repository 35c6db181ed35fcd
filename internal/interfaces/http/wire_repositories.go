package http

import (
	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/infrastructure/repository"
	"github.com/docket-dev/docket/internal/infrastructure/services"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	ticketRepo     ticket.TicketRepository
	activityRepo   ticket.ActivityRepository
	attachmentRepo ticket.AttachmentRepository
	numberGen      ticket.NumberGenerator
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		ticketRepo:     repository.NewTicketRepository(db),
		activityRepo:   repository.NewActivityRepository(db),
		attachmentRepo: repository.NewAttachmentRepository(db),
		numberGen:      services.NewTicketNumberGenerator(db),
	}
}
