package usecases

import (
	"context"
	"io"

	"github.com/docket-dev/docket/internal/application/ticket/dto"
	"github.com/docket-dev/docket/internal/shared/authorization"
)

// PermissionChecker answers whether a scope may perform an action.
type PermissionChecker interface {
	Allowed(scope authorization.Scope, action authorization.Action) (bool, error)
}

// BlobStore holds attachment bytes outside the database.
type BlobStore interface {
	Put(ctx context.Context, ticketID uint, originalName string, r io.Reader) (key string, size int64, err error)
	Delete(ctx context.Context, key string) error
}

// ContentRenderer turns activity content into reporter HTML and agent text.
type ContentRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
	ToPlainText(content string) string
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) error
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type RecordActivityExecutor interface {
	Execute(ctx context.Context, cmd RecordActivityCommand) (*RecordActivityResult, error)
}

type PromoteActivityExecutor interface {
	Execute(ctx context.Context, cmd PromoteActivityCommand) (*dto.ActivityDTO, error)
}

type GetTimelineExecutor interface {
	Execute(ctx context.Context, query GetTimelineQuery) ([]*dto.ActivityDTO, error)
	RenderForAgent(ctx context.Context, query GetTimelineQuery) (string, error)
}

type PipelineExecutor interface {
	Counts(ctx context.Context, query PipelineQuery) (*dto.PipelineCountsDTO, error)
	Stats(ctx context.Context, query PipelineQuery) (*dto.StatsDTO, error)
	WorkQueue(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error)
	Rework(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error)
	FollowUps(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error)
	TriageBatch(ctx context.Context, query PipelineQuery) ([]*dto.TicketDTO, error)
}

type UploadAttachmentExecutor interface {
	Execute(ctx context.Context, cmd UploadAttachmentCommand) (*dto.AttachmentDTO, error)
}

type ListAttachmentsExecutor interface {
	Execute(ctx context.Context, query ListAttachmentsQuery) ([]*dto.AttachmentDTO, error)
}
