package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/mappers"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	db "github.com/docket-dev/docket/internal/shared/db"
)

type AttachmentRepository struct {
	db     *gorm.DB
	mapper mappers.AttachmentMapper
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		mapper: mappers.NewAttachmentMapper(),
	}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *ticket.Attachment) error {
	model := r.mapper.ToModel(a)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return a.SetID(model.ID)
}

func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var attachmentModels []*models.AttachmentModel
	if err := tx.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").Order("id ASC").
		Find(&attachmentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return r.mapper.ToDomainList(attachmentModels), nil
}
