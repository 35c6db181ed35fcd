package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	"github.com/docket-dev/docket/internal/shared/mapper"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	// ToModel converts a ticket domain entity to a persistence model.
	ToModel(t *ticket.Ticket) (*models.TicketModel, error)

	// ToDomain converts a ticket persistence model to a domain entity.
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	// ToDomainList converts persistence models to domain entities.
	ToDomainList(models []*models.TicketModel) ([]*ticket.Ticket, error)
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

// ToModel converts a ticket domain entity to a persistence model.
func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) (*models.TicketModel, error) {
	s := t.State()

	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	ai, err := json.Marshal(s.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ai assessment: %w", err)
	}

	model := &models.TicketModel{
		ID:                  s.ID,
		TicketNumber:        s.TicketNumber,
		ProjectID:           s.ProjectID,
		ClientReferenceID:   s.ClientReferenceID,
		Title:               s.Title,
		Description:         s.Description,
		Source:              s.Source.String(),
		TicketType:          s.TicketType.String(),
		Status:              s.Status.String(),
		Resolution:          enumPtr(s.Resolution),
		Priority:            s.Priority.String(),
		WorkPriority:        s.WorkPriority,
		TestingResult:       enumPtr(s.TestingResult),
		Tags:                tags,
		Route:               s.Client.Route,
		Environment:         s.Client.Environment,
		BrowserInfo:         s.Client.BrowserInfo,
		OSInfo:              s.Client.OSInfo,
		ReporterID:          s.Reporter.ID,
		ReporterName:        s.Reporter.Name,
		ReporterEmail:       s.Reporter.Email,
		Assignee:            s.Assignee,
		Direction:           s.Direction,
		AIAssessment:        ai,
		NeedsFollowup:       s.NeedsFollowup,
		FollowupNotes:       s.FollowupNotes,
		FollowupAfter:       s.FollowupAfter,
		ParentID:            s.ParentID,
		ResolutionNotes:     s.Handoff.ResolutionNotes,
		TestingInstructions: s.Handoff.TestingInstructions,
		TestingURL:          s.Handoff.TestingURL,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	if s.DeletedAt != nil {
		model.DeletedAt.Time = *s.DeletedAt
		model.DeletedAt.Valid = true
	}
	return model, nil
}

// ToDomain converts a ticket persistence model to a domain entity.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	var tags []string
	if len(model.Tags) > 0 {
		if err := json.Unmarshal(model.Tags, &tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags of ticket %d: %w", model.ID, err)
		}
	}
	var ai ticket.AIAssessment
	if len(model.AIAssessment) > 0 && string(model.AIAssessment) != "null" {
		if err := json.Unmarshal(model.AIAssessment, &ai); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ai assessment of ticket %d: %w", model.ID, err)
		}
	}

	var deletedAt *time.Time
	if model.DeletedAt.Valid {
		at := model.DeletedAt.Time
		deletedAt = &at
	}

	var resolution *vo.Resolution
	if model.Resolution != nil {
		r := vo.Resolution(*model.Resolution)
		resolution = &r
	}
	var testingResult *vo.TestingResult
	if model.TestingResult != nil {
		r := vo.TestingResult(*model.TestingResult)
		testingResult = &r
	}

	t, err := ticket.ReconstructTicket(ticket.TicketState{
		ID:                model.ID,
		TicketNumber:      model.TicketNumber,
		ProjectID:         model.ProjectID,
		Title:             model.Title,
		Description:       model.Description,
		Source:            vo.Source(model.Source),
		TicketType:        vo.TicketType(model.TicketType),
		Status:            vo.TicketStatus(model.Status),
		Resolution:        resolution,
		Priority:          vo.Priority(model.Priority),
		WorkPriority:      model.WorkPriority,
		TestingResult:     testingResult,
		Tags:              tags,
		Client: ticket.ClientContext{
			Route:       model.Route,
			Environment: model.Environment,
			BrowserInfo: model.BrowserInfo,
			OSInfo:      model.OSInfo,
		},
		Reporter: ticket.ReporterInfo{
			ID:    model.ReporterID,
			Name:  model.ReporterName,
			Email: model.ReporterEmail,
		},
		Assignee:          model.Assignee,
		Direction:         model.Direction,
		AI:                ai,
		NeedsFollowup:     model.NeedsFollowup,
		FollowupNotes:     model.FollowupNotes,
		FollowupAfter:     model.FollowupAfter,
		ParentID:          model.ParentID,
		ClientReferenceID: model.ClientReferenceID,
		Handoff: ticket.TestingHandoff{
			ResolutionNotes:     model.ResolutionNotes,
			TestingInstructions: model.TestingInstructions,
			TestingURL:          model.TestingURL,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		DeletedAt: deletedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ticket %d: %w", model.ID, err)
	}
	return t, nil
}

// ToDomainList converts persistence models to domain entities.
func (m *TicketMapperImpl) ToDomainList(ms []*models.TicketModel) ([]*ticket.Ticket, error) {
	return mapper.MapSliceWithError(ms, m.ToDomain)
}

func enumPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
