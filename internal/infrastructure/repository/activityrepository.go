package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/mappers"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	"github.com/docket-dev/docket/internal/shared/constants"
	db "github.com/docket-dev/docket/internal/shared/db"
	apperrors "github.com/docket-dev/docket/internal/shared/errors"
)

// ActivityRepository stores timeline entries. It exposes no update or delete
// beyond Promote.
type ActivityRepository struct {
	db     *gorm.DB
	mapper mappers.ActivityMapper
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		mapper: mappers.NewActivityMapper(),
	}
}

func (r *ActivityRepository) Append(ctx context.Context, a *ticket.Activity) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	a.SetCreatedAt(model.CreatedAt)
	return a.SetID(model.ID)
}

func (r *ActivityRepository) ListByTicket(ctx context.Context, ticketID uint, filter ticket.TimelineFilter) ([]*ticket.Activity, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	q := tx.Model(&models.ActivityModel{}).Where("ticket_id = ?", ticketID)

	if filter.Visibility != nil {
		q = q.Where("visibility = ?", filter.Visibility.String())
	}
	if len(filter.ActivityTypes) > 0 {
		q = q.Where("activity_type IN ?", toStrings(filter.ActivityTypes))
	}

	var activityModels []*models.ActivityModel
	if err := q.Order("created_at ASC").Order("id ASC").Find(&activityModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return r.mapper.ToDomainList(activityModels)
}

// Promote flips one internal entry to user_visible. The visibility predicate in
// the UPDATE makes concurrent promotes race-free: exactly one caller wins.
func (r *ActivityRepository) Promote(ctx context.Context, ticketID, activityID uint, approvedBy string, at time.Time) (*ticket.Activity, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.ActivityModel{}).
		Where("id = ? AND ticket_id = ? AND visibility = ?", activityID, ticketID, vo.VisibilityInternal.String()).
		UpdateColumns(map[string]any{
			"visibility":  vo.VisibilityUserVisible.String(),
			"approved_by": approvedBy,
			"approved_at": at.UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to promote activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError(constants.ErrMsgActivityNotFound,
			fmt.Sprintf("no internal entry %d on ticket %d", activityID, ticketID))
	}

	var model models.ActivityModel
	if err := tx.First(&model, activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(constants.ErrMsgActivityNotFound)
		}
		return nil, fmt.Errorf("failed to reload activity: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ActivityRepository) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.ActivityModel{}).Where("ticket_id = ?", ticketID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return total, nil
}
