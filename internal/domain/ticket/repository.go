package ticket

import (
	"context"
	"time"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
)

type TicketRepository interface {
	// Create inserts the ticket and assigns its ID. A clash on
	// (project_id, client_reference_id) surfaces as a duplicate-key error.
	Create(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	// GetByID excludes soft-deleted tickets and returns a not-found AppError.
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	// GetByClientReference returns nil, nil when no ticket holds the key.
	GetByClientReference(ctx context.Context, projectID, clientReferenceID string) (*Ticket, error)
	SoftDelete(ctx context.Context, ticketID uint, at time.Time) error
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)

	CountByStatus(ctx context.Context, projectID string) (map[vo.TicketStatus]int64, error)
	CountByType(ctx context.Context, projectID string) (map[vo.TicketType]int64, error)
	CountByPriority(ctx context.Context, projectID string) (map[vo.Priority]int64, error)
	ListWorkQueue(ctx context.Context, projectID string) ([]*Ticket, error)
	ListRework(ctx context.Context, projectID string) ([]*Ticket, error)
	ListFollowUps(ctx context.Context, projectID string, now time.Time) ([]*Ticket, error)
	ListOldestNew(ctx context.Context, projectID string, limit int) ([]*Ticket, error)
}

type TicketFilter struct {
	ProjectID     string
	Statuses      []vo.TicketStatus
	Types         []vo.TicketType
	Priorities    []vo.Priority
	Assignee      string
	ReporterID    string
	NeedsFollowup *bool
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

type ActivityRepository interface {
	Append(ctx context.Context, activity *Activity) error
	ListByTicket(ctx context.Context, ticketID uint, filter TimelineFilter) ([]*Activity, error)
	// Promote flips an internal entry of the ticket to user_visible in a single
	// conditional update; a missing or already visible entry is not found.
	Promote(ctx context.Context, ticketID, activityID uint, approvedBy string, at time.Time) (*Activity, error)
	CountByTicket(ctx context.Context, ticketID uint) (int64, error)
}

type TimelineFilter struct {
	Visibility    *vo.Visibility
	ActivityTypes []vo.ActivityType
}

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *Attachment) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*Attachment, error)
}

// NumberGenerator hands out ticket numbers. It runs inside the creating
// transaction so committed tickets carry strictly increasing, unique numbers.
type NumberGenerator interface {
	Next(ctx context.Context) (int64, error)
}
