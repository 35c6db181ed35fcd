package mappers

import (
	"github.com/docket-dev/docket/internal/domain/ticket"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	"github.com/docket-dev/docket/internal/shared/mapper"
)

type AttachmentMapper interface {
	ToModel(a *ticket.Attachment) *models.AttachmentModel
	ToDomain(model *models.AttachmentModel) *ticket.Attachment
	ToDomainList(models []*models.AttachmentModel) []*ticket.Attachment
}

type AttachmentMapperImpl struct{}

func NewAttachmentMapper() AttachmentMapper {
	return &AttachmentMapperImpl{}
}

func (m *AttachmentMapperImpl) ToModel(a *ticket.Attachment) *models.AttachmentModel {
	return &models.AttachmentModel{
		ID:           a.ID(),
		TicketID:     a.TicketID(),
		Filename:     a.Filename(),
		OriginalName: a.OriginalName(),
		MimeType:     a.MimeType(),
		SizeBytes:    a.SizeBytes(),
		UploadedBy:   a.UploadedBy(),
		CreatedAt:    a.CreatedAt(),
	}
}

func (m *AttachmentMapperImpl) ToDomain(model *models.AttachmentModel) *ticket.Attachment {
	return ticket.ReconstructAttachment(model.ID, model.TicketID, model.Filename, model.OriginalName,
		model.MimeType, model.SizeBytes, model.UploadedBy, model.CreatedAt)
}

func (m *AttachmentMapperImpl) ToDomainList(ms []*models.AttachmentModel) []*ticket.Attachment {
	return mapper.MapSlice(ms, m.ToDomain)
}
