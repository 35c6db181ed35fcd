package dto

import (
	"encoding/json"
	"time"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/mapper"
)

type TicketDTO struct {
	ID                uint      `json:"id"`
	TicketNumber      int64     `json:"ticket_number"`
	ProjectID         string    `json:"project_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Source            string    `json:"source"`
	TicketType        string    `json:"ticket_type"`
	Status            string    `json:"status"`
	Resolution        *string   `json:"resolution"`
	Priority          string    `json:"priority"`
	TestingResult     *string   `json:"testing_result"`
	Tags              []string  `json:"tags"`
	Route             string    `json:"route,omitempty"`
	Environment       string    `json:"environment,omitempty"`
	BrowserInfo       string    `json:"browser_info,omitempty"`
	OSInfo            string    `json:"os_info,omitempty"`
	ReporterID        string    `json:"reporter_id"`
	ReporterName      string    `json:"reporter_name,omitempty"`
	ReporterEmail     string    `json:"reporter_email,omitempty"`
	ParentID          *uint     `json:"parent_id"`
	ClientReferenceID *string   `json:"client_reference_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Staff-only fields. Nil for the reporter view, which drops them from the JSON.
	*TicketWorkflowDTO
}

// TicketWorkflowDTO holds the fields only staff and agents see.
type TicketWorkflowDTO struct {
	WorkPriority        *int       `json:"work_priority"`
	Assignee            string     `json:"assignee"`
	Direction           string     `json:"direction"`
	AISummary           string     `json:"ai_summary"`
	AICategory          string     `json:"ai_category"`
	AISeverity          string     `json:"ai_severity"`
	AISuggestedFix      string     `json:"ai_suggested_fix"`
	AIAffectedFiles     []string   `json:"ai_affected_files"`
	AIConfidence        string     `json:"ai_confidence"`
	NeedsFollowup       bool       `json:"needs_followup"`
	FollowupNotes       string     `json:"followup_notes"`
	FollowupAfter       *time.Time `json:"followup_after"`
	ResolutionNotes     string     `json:"resolution_notes"`
	TestingInstructions string     `json:"testing_instructions"`
	TestingURL          string     `json:"testing_url"`
}

type ActivityDTO struct {
	ID               uint            `json:"id"`
	TicketID         uint            `json:"ticket_id"`
	ActivityType     string          `json:"activity_type"`
	AuthorType       string          `json:"author_type"`
	AuthorName       string          `json:"author_name"`
	Content          *string         `json:"content"`
	ContentHTML      *string         `json:"content_html,omitempty"`
	Metadata         json.RawMessage `json:"metadata"`
	Visibility       string          `json:"visibility"`
	RequiresApproval bool            `json:"requires_approval"`
	ApprovedBy       *string         `json:"approved_by"`
	ApprovedAt       *time.Time      `json:"approved_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

type AttachmentDTO struct {
	ID           uint      `json:"id"`
	TicketID     uint      `json:"ticket_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// PipelineCountsDTO has one counter per pipeline stage.
type PipelineCountsDTO struct {
	Untriaged    int64 `json:"untriaged"`
	YourDecision int64 `json:"your_decision"`
	AgentWorking int64 `json:"agent_working"`
	Testing      int64 `json:"testing"`
	UserReview   int64 `json:"user_review"`
	Done         int64 `json:"done"`
}

type StatsDTO struct {
	Total      int64             `json:"total"`
	Pipeline   PipelineCountsDTO `json:"pipeline"`
	ByStatus   map[string]int64  `json:"by_status"`
	ByType     map[string]int64  `json:"by_type"`
	ByPriority map[string]int64  `json:"by_priority"`
}

// ToTicketDTO converts the snapshot. Reporters get the public fields only.
func ToTicketDTO(t *ticket.Ticket, includeWorkflow bool) *TicketDTO {
	if t == nil {
		return nil
	}

	client := t.Client()
	reporter := t.Reporter()
	out := &TicketDTO{
		ID:                t.ID(),
		TicketNumber:      t.TicketNumber(),
		ProjectID:         t.ProjectID(),
		Title:             t.Title(),
		Description:       t.Description(),
		Source:            t.Source().String(),
		TicketType:        t.TicketType().String(),
		Status:            t.Status().String(),
		Resolution:        enumString(t.Resolution()),
		Priority:          t.Priority().String(),
		TestingResult:     enumString(t.TestingResult()),
		Tags:              t.Tags(),
		Route:             client.Route,
		Environment:       client.Environment,
		BrowserInfo:       client.BrowserInfo,
		OSInfo:            client.OSInfo,
		ReporterID:        reporter.ID,
		ReporterName:      reporter.Name,
		ReporterEmail:     reporter.Email,
		ParentID:          t.ParentID(),
		ClientReferenceID: t.ClientReferenceID(),
		CreatedAt:         t.CreatedAt(),
		UpdatedAt:         t.UpdatedAt(),
	}
	if !includeWorkflow {
		return out
	}

	ai := t.AI()
	handoff := t.Handoff()
	affected := ai.AffectedFiles
	if affected == nil {
		affected = []string{}
	}
	out.TicketWorkflowDTO = &TicketWorkflowDTO{
		WorkPriority:        t.WorkPriority(),
		Assignee:            t.Assignee(),
		Direction:           t.Direction(),
		AISummary:           ai.Summary,
		AICategory:          ai.Category,
		AISeverity:          ai.Severity,
		AISuggestedFix:      ai.SuggestedFix,
		AIAffectedFiles:     affected,
		AIConfidence:        ai.Confidence,
		NeedsFollowup:       t.NeedsFollowup(),
		FollowupNotes:       t.FollowupNotes(),
		FollowupAfter:       t.FollowupAfter(),
		ResolutionNotes:     handoff.ResolutionNotes,
		TestingInstructions: handoff.TestingInstructions,
		TestingURL:          handoff.TestingURL,
	}
	return out
}

func ToTicketDTOs(tickets []*ticket.Ticket, includeWorkflow bool) []*TicketDTO {
	return mapper.MapSlice(tickets, func(t *ticket.Ticket) *TicketDTO {
		return ToTicketDTO(t, includeWorkflow)
	})
}

func ToActivityDTO(a *ticket.Activity) *ActivityDTO {
	if a == nil {
		return nil
	}
	meta, _ := ticket.EncodeMetadata(a.Metadata())
	return &ActivityDTO{
		ID:               a.ID(),
		TicketID:         a.TicketID(),
		ActivityType:     a.Type().String(),
		AuthorType:       a.AuthorType().String(),
		AuthorName:       a.AuthorName(),
		Content:          a.Content(),
		Metadata:         meta,
		Visibility:       a.Visibility().String(),
		RequiresApproval: a.RequiresApproval(),
		ApprovedBy:       a.ApprovedBy(),
		ApprovedAt:       a.ApprovedAt(),
		CreatedAt:        a.CreatedAt(),
	}
}

func ToActivityDTOs(entries []*ticket.Activity) []*ActivityDTO {
	return mapper.MapSlice(entries, ToActivityDTO)
}

func ToAttachmentDTO(a *ticket.Attachment) *AttachmentDTO {
	return &AttachmentDTO{
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

func ToAttachmentDTOs(items []*ticket.Attachment) []*AttachmentDTO {
	return mapper.MapSlice(items, ToAttachmentDTO)
}

// ToPipelineCounts folds per-status counts into stages. Every status lands in
// exactly one stage.
func ToPipelineCounts(byStatus map[vo.TicketStatus]int64) PipelineCountsDTO {
	var out PipelineCountsDTO
	for _, stage := range vo.AllStages() {
		var n int64
		for _, status := range stage.Statuses() {
			n += byStatus[status]
		}
		switch stage {
		case vo.StageUntriaged:
			out.Untriaged = n
		case vo.StageYourDecision:
			out.YourDecision = n
		case vo.StageAgentWorking:
			out.AgentWorking = n
		case vo.StageTesting:
			out.Testing = n
		case vo.StageUserReview:
			out.UserReview = n
		case vo.StageDone:
			out.Done = n
		}
	}
	return out
}

// Total sums every stage.
func (p PipelineCountsDTO) Total() int64 {
	return p.Untriaged + p.YourDecision + p.AgentWorking + p.Testing + p.UserReview + p.Done
}

func enumString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
