package ticket

import (
	"fmt"
	"slices"
	"strings"
	"time"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
)

const (
	maxTitleLength       = 300
	maxDescriptionLength = 20000
)

// AIAssessment holds the opaque triage fields supplied by an external agent.
type AIAssessment struct {
	Summary       string   `json:"summary,omitempty"`
	Category      string   `json:"category,omitempty"`
	Severity      string   `json:"severity,omitempty"`
	SuggestedFix  string   `json:"suggested_fix,omitempty"`
	AffectedFiles []string `json:"affected_files,omitempty"`
	Confidence    string   `json:"confidence,omitempty"`
}

// TestingHandoff is what the fixer leaves for whoever verifies the fix.
type TestingHandoff struct {
	ResolutionNotes     string `json:"resolution_notes,omitempty"`
	TestingInstructions string `json:"testing_instructions,omitempty"`
	TestingURL          string `json:"testing_url,omitempty"`
}

// ReporterInfo identifies the end user who filed the ticket.
type ReporterInfo struct {
	ID    string
	Name  string
	Email string
}

// ClientContext is free-form context captured by the submitting client.
type ClientContext struct {
	Route       string
	Environment string
	BrowserInfo string
	OSInfo      string
}

// Ticket is the current-state snapshot of a reported issue. It is only ever
// mutated together with an appended activity entry.
type Ticket struct {
	id                uint
	ticketNumber      int64
	projectID         string
	title             string
	description       string
	source            vo.Source
	ticketType        vo.TicketType
	status            vo.TicketStatus
	resolution        *vo.Resolution
	priority          vo.Priority
	workPriority      *int
	testingResult     *vo.TestingResult
	tags              []string
	client            ClientContext
	reporter          ReporterInfo
	assignee          string
	direction         string
	ai                AIAssessment
	needsFollowup     bool
	followupNotes     string
	followupAfter     *time.Time
	parentID          *uint
	clientReferenceID *string
	handoff           TestingHandoff
	createdAt         time.Time
	updatedAt         time.Time
	deletedAt         *time.Time
}

type NewTicketParams struct {
	ProjectID         string
	Title             string
	Description       string
	Source            vo.Source
	TicketType        vo.TicketType
	Priority          vo.Priority
	Tags              []string
	Client            ClientContext
	Reporter          ReporterInfo
	ParentID          *uint
	ClientReferenceID *string
}

func NewTicket(p NewTicketParams) (*Ticket, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, errors.NewValidationError("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, errors.NewValidationError(fmt.Sprintf("title exceeds maximum length of %d characters", maxTitleLength))
	}
	if strings.TrimSpace(p.Description) == "" {
		return nil, errors.NewValidationError("description is required")
	}
	if len(p.Description) > maxDescriptionLength {
		return nil, errors.NewValidationError(fmt.Sprintf("description exceeds maximum length of %d characters", maxDescriptionLength))
	}
	if !p.TicketType.IsValid() {
		return nil, errors.NewValidationError("invalid ticket_type", string(p.TicketType))
	}
	if strings.TrimSpace(p.Reporter.ID) == "" {
		return nil, errors.NewValidationError("reporter_id is required")
	}

	source := p.Source
	if source == "" {
		source = vo.SourceAPI
	}
	if !source.IsValid() {
		return nil, errors.NewValidationError("invalid source", string(source))
	}
	priority := p.Priority
	if priority == "" {
		priority = vo.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, errors.NewValidationError("invalid priority", string(priority))
	}

	var clientRef *string
	if p.ClientReferenceID != nil && strings.TrimSpace(*p.ClientReferenceID) != "" {
		ref := strings.TrimSpace(*p.ClientReferenceID)
		clientRef = &ref
	}

	now := time.Now().UTC()
	return &Ticket{
		projectID:         p.ProjectID,
		title:             title,
		description:       p.Description,
		source:            source,
		ticketType:        p.TicketType,
		status:            vo.StatusNew,
		priority:          priority,
		tags:              normalizeTags(p.Tags),
		client:            p.Client,
		reporter:          p.Reporter,
		parentID:          p.ParentID,
		clientReferenceID: clientRef,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// TicketState carries every persisted field; used by mappers and replay.
type TicketState struct {
	ID                uint
	TicketNumber      int64
	ProjectID         string
	Title             string
	Description       string
	Source            vo.Source
	TicketType        vo.TicketType
	Status            vo.TicketStatus
	Resolution        *vo.Resolution
	Priority          vo.Priority
	WorkPriority      *int
	TestingResult     *vo.TestingResult
	Tags              []string
	Client            ClientContext
	Reporter          ReporterInfo
	Assignee          string
	Direction         string
	AI                AIAssessment
	NeedsFollowup     bool
	FollowupNotes     string
	FollowupAfter     *time.Time
	ParentID          *uint
	ClientReferenceID *string
	Handoff           TestingHandoff
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

func ReconstructTicket(s TicketState) (*Ticket, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !s.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", s.Status)
	}
	if !s.TicketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type: %s", s.TicketType)
	}

	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}

	return &Ticket{
		id:                s.ID,
		ticketNumber:      s.TicketNumber,
		projectID:         s.ProjectID,
		title:             s.Title,
		description:       s.Description,
		source:            s.Source,
		ticketType:        s.TicketType,
		status:            s.Status,
		resolution:        s.Resolution,
		priority:          s.Priority,
		workPriority:      s.WorkPriority,
		testingResult:     s.TestingResult,
		tags:              tags,
		client:            s.Client,
		reporter:          s.Reporter,
		assignee:          s.Assignee,
		direction:         s.Direction,
		ai:                s.AI,
		needsFollowup:     s.NeedsFollowup,
		followupNotes:     s.FollowupNotes,
		followupAfter:     s.FollowupAfter,
		parentID:          s.ParentID,
		clientReferenceID: s.ClientReferenceID,
		handoff:           s.Handoff,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		deletedAt:         s.DeletedAt,
	}, nil
}

// State returns a copy of every field.
func (t *Ticket) State() TicketState {
	return TicketState{
		ID:                t.id,
		TicketNumber:      t.ticketNumber,
		ProjectID:         t.projectID,
		Title:             t.title,
		Description:       t.description,
		Source:            t.source,
		TicketType:        t.ticketType,
		Status:            t.status,
		Resolution:        t.resolution,
		Priority:          t.priority,
		WorkPriority:      t.workPriority,
		TestingResult:     t.testingResult,
		Tags:              t.Tags(),
		Client:            t.client,
		Reporter:          t.reporter,
		Assignee:          t.assignee,
		Direction:         t.direction,
		AI:                t.ai,
		NeedsFollowup:     t.needsFollowup,
		FollowupNotes:     t.followupNotes,
		FollowupAfter:     t.followupAfter,
		ParentID:          t.parentID,
		ClientReferenceID: t.clientReferenceID,
		Handoff:           t.handoff,
		CreatedAt:         t.createdAt,
		UpdatedAt:         t.updatedAt,
		DeletedAt:         t.deletedAt,
	}
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) TicketNumber() int64 {
	return t.ticketNumber
}

func (t *Ticket) ProjectID() string {
	return t.projectID
}

func (t *Ticket) Title() string {
	return t.title
}

func (t *Ticket) Description() string {
	return t.description
}

func (t *Ticket) Source() vo.Source {
	return t.source
}

func (t *Ticket) TicketType() vo.TicketType {
	return t.ticketType
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) Resolution() *vo.Resolution {
	return t.resolution
}

func (t *Ticket) Priority() vo.Priority {
	return t.priority
}

func (t *Ticket) WorkPriority() *int {
	return t.workPriority
}

func (t *Ticket) TestingResult() *vo.TestingResult {
	return t.testingResult
}

func (t *Ticket) Tags() []string {
	tagsCopy := make([]string, len(t.tags))
	copy(tagsCopy, t.tags)
	return tagsCopy
}

func (t *Ticket) Client() ClientContext {
	return t.client
}

func (t *Ticket) Reporter() ReporterInfo {
	return t.reporter
}

func (t *Ticket) ReporterID() string {
	return t.reporter.ID
}

func (t *Ticket) Assignee() string {
	return t.assignee
}

func (t *Ticket) Direction() string {
	return t.direction
}

func (t *Ticket) AI() AIAssessment {
	ai := t.ai
	ai.AffectedFiles = slices.Clone(t.ai.AffectedFiles)
	return ai
}

func (t *Ticket) NeedsFollowup() bool {
	return t.needsFollowup
}

func (t *Ticket) FollowupNotes() string {
	return t.followupNotes
}

func (t *Ticket) FollowupAfter() *time.Time {
	return t.followupAfter
}

func (t *Ticket) ParentID() *uint {
	return t.parentID
}

func (t *Ticket) ClientReferenceID() *string {
	return t.clientReferenceID
}

func (t *Ticket) Handoff() TestingHandoff {
	return t.handoff
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) DeletedAt() *time.Time {
	return t.deletedAt
}

func (t *Ticket) IsDeleted() bool {
	return t.deletedAt != nil
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetTicketNumber(number int64) error {
	if t.ticketNumber != 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if number <= 0 {
		return fmt.Errorf("ticket number must be positive")
	}
	t.ticketNumber = number
	return nil
}

// transitionTo moves the ticket along one declared edge of the status table.
func (t *Ticket) transitionTo(next vo.TicketStatus) error {
	if !next.IsValid() {
		return errors.NewValidationError("invalid status", string(next))
	}
	if !t.status.CanTransitionTo(next) {
		return errors.NewInvalidTransitionError(
			string(t.status), string(next),
			vo.StatusStrings(t.status.AllowedTransitions()),
		)
	}
	t.status = next
	if next == vo.StatusResolved {
		fixed := vo.ResolutionFixed
		t.resolution = &fixed
	}
	return nil
}

func (t *Ticket) touch() {
	t.updatedAt = time.Now().UTC()
}

// ChangeStatus moves the ticket to next and returns the previous status.
func (t *Ticket) ChangeStatus(next vo.TicketStatus) (vo.TicketStatus, error) {
	prev := t.status
	if err := t.transitionTo(next); err != nil {
		return prev, err
	}
	t.touch()
	return prev, nil
}

// Triage records the AI assessment and moves an untriaged ticket to triaged.
func (t *Ticket) Triage(ai AIAssessment) error {
	if err := t.transitionTo(vo.StatusTriaged); err != nil {
		return err
	}
	ai.AffectedFiles = slices.Clone(ai.AffectedFiles)
	t.ai = ai
	t.touch()
	return nil
}

// Approve hands a triaged ticket to the agents with a direction and queue position.
func (t *Ticket) Approve(direction string, workPriority *int) error {
	if workPriority != nil && *workPriority < 0 {
		return errors.NewValidationError("work_priority must be zero or greater")
	}
	if err := t.transitionTo(vo.StatusApproved); err != nil {
		return err
	}
	t.direction = strings.TrimSpace(direction)
	if workPriority != nil {
		wp := *workPriority
		t.workPriority = &wp
	}
	t.touch()
	return nil
}

// Reject closes the ticket with a non-fix resolution.
func (t *Ticket) Reject(resolution vo.Resolution, reason string) error {
	if resolution == "" {
		return errors.NewValidationError("resolution is required")
	}
	if !resolution.IsNonFix() {
		return errors.NewValidationError(
			"resolution must be a non-fix resolution",
			"one of: wont_fix, duplicate, deferred, invalid, cannot_reproduce",
		)
	}
	if strings.TrimSpace(reason) == "" {
		return errors.NewValidationError("reason is required")
	}
	if err := t.transitionTo(vo.StatusClosed); err != nil {
		return err
	}
	r := resolution
	t.resolution = &r
	t.touch()
	return nil
}

// Resolve marks the fix as ready for review and stores the testing handoff.
func (t *Ticket) Resolve(handoff TestingHandoff) error {
	if err := t.transitionTo(vo.StatusInReview); err != nil {
		return err
	}
	t.handoff = handoff
	t.touch()
	return nil
}

// RecordTestResult stores the outcome of verifying the fix.
func (t *Ticket) RecordTestResult(result vo.TestingResult) error {
	if !result.IsValid() {
		return errors.NewValidationError("result must be one of [pass fail partial]", string(result))
	}
	r := result
	t.testingResult = &r
	t.touch()
	return nil
}

// Assign sets the assignee and returns the previous one. An empty assignee unassigns.
func (t *Ticket) Assign(assignee string) string {
	prev := t.assignee
	t.assignee = strings.TrimSpace(assignee)
	t.touch()
	return prev
}

// ScheduleFollowup sets or clears the follow-up reminder.
func (t *Ticket) ScheduleFollowup(needed bool, notes string, after *time.Time) []FieldChange {
	var changes []FieldChange
	if !needed {
		notes = ""
		after = nil
	}
	if t.needsFollowup != needed {
		changes = append(changes, FieldChange{Field: "needs_followup", From: t.needsFollowup, To: needed})
		t.needsFollowup = needed
	}
	if t.followupNotes != notes {
		changes = append(changes, FieldChange{Field: "followup_notes", From: t.followupNotes, To: notes})
		t.followupNotes = notes
	}
	if after != nil {
		a := after.UTC().Truncate(time.Second)
		after = &a
	}
	if !sameTime(t.followupAfter, after) {
		changes = append(changes, FieldChange{Field: "followup_after", From: formatTime(t.followupAfter), To: formatTime(after)})
		t.followupAfter = after
	}
	if len(changes) > 0 {
		t.touch()
	}
	return changes
}

// IsFollowupDue reports whether the follow-up reminder has come due.
func (t *Ticket) IsFollowupDue(now time.Time) bool {
	return t.needsFollowup && t.followupAfter != nil && !t.followupAfter.After(now)
}

// MarkDeleted sets the soft-delete marker.
func (t *Ticket) MarkDeleted(at time.Time) error {
	if t.deletedAt != nil {
		return errors.NewNotFoundError("ticket not found")
	}
	at = at.UTC()
	t.deletedAt = &at
	t.updatedAt = at
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
