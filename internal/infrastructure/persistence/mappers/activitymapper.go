package mappers

import (
	"fmt"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	"github.com/docket-dev/docket/internal/shared/mapper"
)

// ActivityMapper converts timeline entries between the domain and the activity table.
type ActivityMapper interface {
	ToModel(a *ticket.Activity) (*models.ActivityModel, error)
	ToDomain(model *models.ActivityModel) (*ticket.Activity, error)
	ToDomainList(models []*models.ActivityModel) ([]*ticket.Activity, error)
}

type ActivityMapperImpl struct{}

func NewActivityMapper() ActivityMapper {
	return &ActivityMapperImpl{}
}

func (m *ActivityMapperImpl) ToModel(a *ticket.Activity) (*models.ActivityModel, error) {
	raw, err := ticket.EncodeMetadata(a.Metadata())
	if err != nil {
		return nil, err
	}
	return &models.ActivityModel{
		ID:               a.ID(),
		TicketID:         a.TicketID(),
		ActivityType:     a.Type().String(),
		AuthorType:       a.AuthorType().String(),
		AuthorName:       a.AuthorName(),
		Content:          a.Content(),
		Metadata:         raw,
		Visibility:       a.Visibility().String(),
		RequiresApproval: a.RequiresApproval(),
		ApprovedBy:       a.ApprovedBy(),
		ApprovedAt:       a.ApprovedAt(),
		CreatedAt:        a.CreatedAt(),
	}, nil
}

func (m *ActivityMapperImpl) ToDomain(model *models.ActivityModel) (*ticket.Activity, error) {
	if model == nil {
		return nil, nil
	}
	activityType := vo.ActivityType(model.ActivityType)
	meta, err := ticket.DecodeMetadata(activityType, model.Metadata)
	if err != nil {
		return nil, fmt.Errorf("activity %d: %w", model.ID, err)
	}
	return ticket.ReconstructActivity(ticket.ActivityState{
		ID:               model.ID,
		TicketID:         model.TicketID,
		Type:             activityType,
		AuthorType:       vo.AuthorType(model.AuthorType),
		AuthorName:       model.AuthorName,
		Content:          model.Content,
		Metadata:         meta,
		Visibility:       vo.Visibility(model.Visibility),
		RequiresApproval: model.RequiresApproval,
		ApprovedBy:       model.ApprovedBy,
		ApprovedAt:       model.ApprovedAt,
		CreatedAt:        model.CreatedAt,
	})
}

func (m *ActivityMapperImpl) ToDomainList(ms []*models.ActivityModel) ([]*ticket.Activity, error) {
	return mapper.MapSliceWithError(ms, m.ToDomain)
}
