package usecases

import (
	"context"
	"fmt"
	"io"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/db"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
)

type UploadAttachmentCommand struct {
	Actor        authorization.Actor
	TicketID     uint
	OriginalName string
	MimeType     string
	// DeclaredSize comes from the multipart header; the stored size is measured.
	DeclaredSize int64
	Body         io.Reader
}

type UploadAttachmentUseCase struct {
	access      ticketAccess
	attachments ticket.AttachmentRepository
	activities  ticket.ActivityRepository
	blobs       BlobStore
	txMgr       db.Transactor
	logger      logger.Interface
}

func NewUploadAttachmentUseCase(
	tickets ticket.TicketRepository,
	attachments ticket.AttachmentRepository,
	activities ticket.ActivityRepository,
	blobs BlobStore,
	perms PermissionChecker,
	txMgr db.Transactor,
	logger logger.Interface,
) *UploadAttachmentUseCase {
	return &UploadAttachmentUseCase{
		access:      ticketAccess{tickets: tickets, perms: perms},
		attachments: attachments,
		activities:  activities,
		blobs:       blobs,
		txMgr:       txMgr,
		logger:      logger,
	}
}

func (uc *UploadAttachmentUseCase) Execute(ctx context.Context, cmd UploadAttachmentCommand) (*dto.AttachmentDTO, error) {
	if err := uc.access.authorize(cmd.Actor, authorization.ActionAttachmentUpload); err != nil {
		return nil, err
	}
	if cmd.Body == nil {
		return nil, errors.NewValidationError("file is required")
	}
	if cmd.DeclaredSize > ticket.MaxAttachmentBytes {
		return nil, ticket.ErrAttachmentTooLarge
	}
	t, err := uc.access.load(ctx, cmd.Actor, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	key, size, err := uc.blobs.Put(ctx, t.ID(), cmd.OriginalName, cmd.Body)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to store attachment blob", "ticket_id", t.ID(), "error", err)
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	var attachment *ticket.Attachment
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		attachment, err = ticket.NewAttachment(t.ID(), key, cmd.OriginalName, cmd.MimeType, size, cmd.Actor.DisplayName())
		if err != nil {
			return err
		}
		if err := uc.attachments.Create(txCtx, attachment); err != nil {
			return err
		}
		entry, err := systemEntry(t.ID(), cmd.Actor, "Attachment added: "+attachment.OriginalName(), ticket.SystemMetadata{
			Event:        ticket.SystemEventAttachmentAdded,
			AttachmentID: attachment.ID(),
			OriginalName: attachment.OriginalName(),
			SizeBytes:    attachment.SizeBytes(),
		})
		if err != nil {
			return err
		}
		return uc.activities.Append(txCtx, entry)
	})
	if txErr != nil {
		if delErr := uc.blobs.Delete(ctx, key); delErr != nil {
			uc.logger.Warnw("failed to remove orphaned blob", "key", key, "error", delErr)
		}
		if !errors.IsAppError(txErr) {
			uc.logger.Errorw("failed to record attachment", "ticket_id", t.ID(), "error", txErr)
		}
		return nil, txErr
	}

	uc.logger.Infow("attachment uploaded",
		"ticket_id", t.ID(),
		"attachment_id", attachment.ID(),
		"size_bytes", size,
	)
	return dto.ToAttachmentDTO(attachment), nil
}

type ListAttachmentsQuery struct {
	Actor    authorization.Actor
	TicketID uint
}

type ListAttachmentsUseCase struct {
	access      ticketAccess
	attachments ticket.AttachmentRepository
}

func NewListAttachmentsUseCase(
	tickets ticket.TicketRepository,
	attachments ticket.AttachmentRepository,
	perms PermissionChecker,
) *ListAttachmentsUseCase {
	return &ListAttachmentsUseCase{
		access:      ticketAccess{tickets: tickets, perms: perms},
		attachments: attachments,
	}
}

func (uc *ListAttachmentsUseCase) Execute(ctx context.Context, query ListAttachmentsQuery) ([]*dto.AttachmentDTO, error) {
	if err := uc.access.authorize(query.Actor, authorization.ActionAttachmentList); err != nil {
		return nil, err
	}
	if _, err := uc.access.load(ctx, query.Actor, query.TicketID); err != nil {
		return nil, err
	}
	items, err := uc.attachments.ListByTicket(ctx, query.TicketID)
	if err != nil {
		return nil, err
	}
	return dto.ToAttachmentDTOs(items), nil
}
