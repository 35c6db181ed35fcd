package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/mappers"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
	"github.com/docket-dev/docket/internal/shared/constants"
	db "github.com/docket-dev/docket/internal/shared/db"
	apperrors "github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/query"
)

// ticketSortColumns is the ORDER BY whitelist; keys are the public sort names.
var ticketSortColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"work_priority": "work_priority",
	"ticket_number": "ticket_number",
}

// workQueueOrder puts unprioritised tickets after every prioritised one on all dialects.
const workQueueOrder = "work_priority IS NULL, work_priority ASC, created_at ASC"

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return t.SetID(model.ID)
}

// Update writes every snapshot column. Identity columns and the soft-delete
// marker are never touched here.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "ticket_number", "project_id", "client_reference_id", "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	// RowsAffected may be 0 on MySQL when the row is unchanged.
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(constants.ErrMsgTicketNotFound, fmt.Sprintf("ticket %d", ticketID))
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByClientReference(ctx context.Context, projectID, clientReferenceID string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	// Soft-deleted rows still hold the key, so they are included.
	err := tx.Unscoped().
		Where("project_id = ? AND client_reference_id = ?", projectID, clientReferenceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket by client reference: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) SoftDelete(ctx context.Context, ticketID uint, at time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", ticketID).
		UpdateColumns(map[string]any{
			"deleted_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(constants.ErrMsgTicketNotFound, fmt.Sprintf("ticket %d", ticketID))
	}
	return nil
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	q := tx.Model(&models.TicketModel{}).Scopes(db.ForProject(filter.ProjectID))

	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", toStrings(filter.Statuses))
	}
	if len(filter.Types) > 0 {
		q = q.Where("ticket_type IN ?", toStrings(filter.Types))
	}
	if len(filter.Priorities) > 0 {
		q = q.Where("priority IN ?", toStrings(filter.Priorities))
	}
	if filter.Assignee != "" {
		q = q.Where("assignee = ?", filter.Assignee)
	}
	if filter.ReporterID != "" {
		q = q.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.NeedsFollowup != nil {
		q = q.Where("needs_followup = ?", *filter.NeedsFollowup)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	order := "created_at DESC"
	if filter.SortBy != "" {
		sort := query.SortFilter{SortBy: strings.ToLower(filter.SortBy), SortOrder: filter.SortOrder}
		order = sort.OrderClause(ticketSortColumns, "created_at")
	}
	page := query.PageFilter{Page: filter.Page, PageSize: filter.PageSize}

	var ticketModels []*models.TicketModel
	if err := q.Order(order).Order("id ASC").
		Limit(page.Limit()).Offset(page.Offset()).
		Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.mapper.ToDomainList(ticketModels)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) CountByStatus(ctx context.Context, projectID string) (map[vo.TicketStatus]int64, error) {
	rows, err := r.countBy(ctx, projectID, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[vo.TicketStatus]int64, len(rows))
	for k, v := range rows {
		counts[vo.TicketStatus(k)] = v
	}
	return counts, nil
}

func (r *TicketRepository) CountByType(ctx context.Context, projectID string) (map[vo.TicketType]int64, error) {
	rows, err := r.countBy(ctx, projectID, "ticket_type")
	if err != nil {
		return nil, err
	}
	counts := make(map[vo.TicketType]int64, len(rows))
	for k, v := range rows {
		counts[vo.TicketType(k)] = v
	}
	return counts, nil
}

func (r *TicketRepository) CountByPriority(ctx context.Context, projectID string) (map[vo.Priority]int64, error) {
	rows, err := r.countBy(ctx, projectID, "priority")
	if err != nil {
		return nil, err
	}
	counts := make(map[vo.Priority]int64, len(rows))
	for k, v := range rows {
		counts[vo.Priority(k)] = v
	}
	return counts, nil
}

type groupCount struct {
	GroupKey string
	Total    int64
}

// countBy groups live tickets by one of the fixed enum columns above.
func (r *TicketRepository) countBy(ctx context.Context, projectID, column string) (map[string]int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []groupCount
	err := tx.Table(constants.TableTickets).
		Scopes(db.NotDeleted(), db.ForProject(projectID)).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Total
	}
	return counts, nil
}

func (r *TicketRepository) ListWorkQueue(ctx context.Context, projectID string) ([]*ticket.Ticket, error) {
	return r.find(ctx, "work queue", func(q *gorm.DB) *gorm.DB {
		return q.Scopes(db.ForProject(projectID)).
			Where("status = ?", vo.StatusApproved.String()).
			Order(workQueueOrder)
	})
}

func (r *TicketRepository) ListRework(ctx context.Context, projectID string) ([]*ticket.Ticket, error) {
	return r.find(ctx, "rework items", func(q *gorm.DB) *gorm.DB {
		return q.Scopes(db.ForProject(projectID)).
			Where("testing_result IN ?", toStrings(vo.ReworkResults())).
			Order("updated_at DESC")
	})
}

func (r *TicketRepository) ListFollowUps(ctx context.Context, projectID string, now time.Time) ([]*ticket.Ticket, error) {
	return r.find(ctx, "follow-ups", func(q *gorm.DB) *gorm.DB {
		return q.Scopes(db.ForProject(projectID)).
			Where("needs_followup = ? AND followup_after IS NOT NULL AND followup_after <= ?", true, now.UTC()).
			Order("followup_after ASC")
	})
}

func (r *TicketRepository) ListOldestNew(ctx context.Context, projectID string, limit int) ([]*ticket.Ticket, error) {
	return r.find(ctx, "triage batch", func(q *gorm.DB) *gorm.DB {
		return q.Scopes(db.ForProject(projectID)).
			Where("status = ?", vo.StatusNew.String()).
			Order("created_at ASC").Order("id ASC").
			Limit(limit)
	})
}

func (r *TicketRepository) find(ctx context.Context, what string, scope func(*gorm.DB) *gorm.DB) ([]*ticket.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var ticketModels []*models.TicketModel
	if err := scope(tx.Model(&models.TicketModel{})).Find(&ticketModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	return r.mapper.ToDomainList(ticketModels)
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
