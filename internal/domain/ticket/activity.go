package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
)

const maxContentLength = 50000

// Activity is one immutable entry in a ticket's history. The only permitted
// mutation after insert is Promote.
type Activity struct {
	id               uint
	ticketID         uint
	activityType     vo.ActivityType
	authorType       vo.AuthorType
	authorName       string
	content          *string
	metadata         Metadata
	visibility       vo.Visibility
	requiresApproval bool
	approvedBy       *string
	approvedAt       *time.Time
	createdAt        time.Time
}

type NewActivityParams struct {
	TicketID         uint
	Type             vo.ActivityType
	AuthorType       vo.AuthorType
	AuthorName       string
	Content          *string
	Metadata         Metadata
	Visibility       vo.Visibility
	RequiresApproval bool
}

func NewActivity(p NewActivityParams) (*Activity, error) {
	if p.TicketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("invalid activity type: %s", p.Type)
	}
	if !p.AuthorType.IsValid() {
		return nil, fmt.Errorf("invalid author type: %s", p.AuthorType)
	}
	if !p.Visibility.IsValid() {
		return nil, fmt.Errorf("invalid visibility: %s", p.Visibility)
	}
	if p.Metadata != nil && p.Metadata.ActivityType() != p.Type {
		return nil, fmt.Errorf("metadata for %s attached to %s entry", p.Metadata.ActivityType(), p.Type)
	}
	if err := ValidateMetadata(p.Metadata); err != nil {
		return nil, err
	}
	if p.Content != nil && len(*p.Content) > maxContentLength {
		return nil, errors.NewValidationError(fmt.Sprintf("content exceeds maximum length of %d characters", maxContentLength))
	}

	authorName := strings.TrimSpace(p.AuthorName)
	if authorName == "" {
		authorName = string(p.AuthorType)
	}

	return &Activity{
		ticketID:         p.TicketID,
		activityType:     p.Type,
		authorType:       p.AuthorType,
		authorName:       authorName,
		content:          p.Content,
		metadata:         p.Metadata,
		visibility:       p.Visibility,
		requiresApproval: p.RequiresApproval,
		createdAt:        time.Now().UTC(),
	}, nil
}

type ActivityState struct {
	ID               uint
	TicketID         uint
	Type             vo.ActivityType
	AuthorType       vo.AuthorType
	AuthorName       string
	Content          *string
	Metadata         Metadata
	Visibility       vo.Visibility
	RequiresApproval bool
	ApprovedBy       *string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
}

func ReconstructActivity(s ActivityState) (*Activity, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("activity ID cannot be zero")
	}
	if !s.Type.IsValid() {
		return nil, fmt.Errorf("invalid activity type: %s", s.Type)
	}
	if !s.Visibility.IsValid() {
		return nil, fmt.Errorf("invalid visibility: %s", s.Visibility)
	}
	return &Activity{
		id:               s.ID,
		ticketID:         s.TicketID,
		activityType:     s.Type,
		authorType:       s.AuthorType,
		authorName:       s.AuthorName,
		content:          s.Content,
		metadata:         s.Metadata,
		visibility:       s.Visibility,
		requiresApproval: s.RequiresApproval,
		approvedBy:       s.ApprovedBy,
		approvedAt:       s.ApprovedAt,
		createdAt:        s.CreatedAt,
	}, nil
}

func (a *Activity) ID() uint { return a.id }
func (a *Activity) TicketID() uint { return a.ticketID }
func (a *Activity) Type() vo.ActivityType { return a.activityType }
func (a *Activity) AuthorType() vo.AuthorType { return a.authorType }
func (a *Activity) AuthorName() string { return a.authorName }
func (a *Activity) Content() *string { return a.content }
func (a *Activity) Metadata() Metadata { return a.metadata }
func (a *Activity) Visibility() vo.Visibility { return a.visibility }
func (a *Activity) RequiresApproval() bool { return a.requiresApproval }
func (a *Activity) ApprovedBy() *string { return a.approvedBy }
func (a *Activity) ApprovedAt() *time.Time { return a.approvedAt }
func (a *Activity) CreatedAt() time.Time { return a.createdAt }

// ContentText returns the content or an empty string.
func (a *Activity) ContentText() string {
	if a.content == nil {
		return ""
	}
	return *a.content
}

func (a *Activity) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("activity ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("activity ID cannot be zero")
	}
	a.id = id
	return nil
}

// SetCreatedAt aligns the in-memory timestamp with the stored one.
func (a *Activity) SetCreatedAt(at time.Time) {
	a.createdAt = at
}

// IsVisibleToReporter reports whether the reporter timeline may include the entry.
// Internal entries and entries still awaiting approval are never disclosed.
func (a *Activity) IsVisibleToReporter() bool {
	if !a.visibility.IsUserVisible() {
		return false
	}
	if a.requiresApproval && a.approvedAt == nil {
		return false
	}
	return true
}

// Promote flips an internal entry to user_visible and records the approval.
// An entry that is already visible reports not found.
func (a *Activity) Promote(approvedBy string, at time.Time) error {
	if a.visibility != vo.VisibilityInternal {
		return errors.NewNotFoundError("activity entry not found or already visible")
	}
	by := strings.TrimSpace(approvedBy)
	if by == "" {
		return errors.NewValidationError("approver is required")
	}
	at = at.UTC()
	a.visibility = vo.VisibilityUserVisible
	a.approvedBy = &by
	a.approvedAt = &at
	return nil
}
