package ticket

import (
	"fmt"
	"slices"
	"strings"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
)

// FieldChange records one field edit inside a field_change activity entry.
type FieldChange struct {
	Field string `json:"field" validate:"required"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// Changes is a partial update. Nil fields are left alone. Status is deliberately
// absent: it only moves through the workflow operations.
type Changes struct {
	Title         *string
	Description   *string
	TicketType    *vo.TicketType
	Priority      *vo.Priority
	Tags          *[]string
	Route         *string
	Environment   *string
	BrowserInfo   *string
	OSInfo        *string
	ReporterName  *string
	ReporterEmail *string
	Direction     *string
	WorkPriority  *int
	ParentID      *uint
}

// ApplyChanges validates and applies c, returning one FieldChange per field whose
// value actually differs. No returned changes means the ticket was not touched.
func (t *Ticket) ApplyChanges(c Changes) ([]FieldChange, error) {
	if err := t.validateChanges(c); err != nil {
		return nil, err
	}

	var changes []FieldChange
	setString := func(field string, dst *string, v *string) {
		if v == nil || *dst == *v {
			return
		}
		changes = append(changes, FieldChange{Field: field, From: *dst, To: *v})
		*dst = *v
	}

	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		setString("title", &t.title, &title)
	}
	setString("description", &t.description, c.Description)
	if c.TicketType != nil && *c.TicketType != t.ticketType {
		changes = append(changes, FieldChange{Field: "ticket_type", From: string(t.ticketType), To: string(*c.TicketType)})
		t.ticketType = *c.TicketType
	}
	if c.Priority != nil && *c.Priority != t.priority {
		changes = append(changes, FieldChange{Field: "priority", From: string(t.priority), To: string(*c.Priority)})
		t.priority = *c.Priority
	}
	if c.Tags != nil {
		tags := normalizeTags(*c.Tags)
		if !slices.Equal(tags, t.tags) {
			changes = append(changes, FieldChange{Field: "tags", From: t.Tags(), To: slices.Clone(tags)})
			t.tags = tags
		}
	}
	setString("route", &t.client.Route, c.Route)
	setString("environment", &t.client.Environment, c.Environment)
	setString("browser_info", &t.client.BrowserInfo, c.BrowserInfo)
	setString("os_info", &t.client.OSInfo, c.OSInfo)
	setString("reporter_name", &t.reporter.Name, c.ReporterName)
	setString("reporter_email", &t.reporter.Email, c.ReporterEmail)
	setString("direction", &t.direction, c.Direction)
	if c.WorkPriority != nil && (t.workPriority == nil || *t.workPriority != *c.WorkPriority) {
		var from any
		if t.workPriority != nil {
			from = *t.workPriority
		}
		changes = append(changes, FieldChange{Field: "work_priority", From: from, To: *c.WorkPriority})
		wp := *c.WorkPriority
		t.workPriority = &wp
	}
	if c.ParentID != nil && (t.parentID == nil || *t.parentID != *c.ParentID) {
		var from any
		if t.parentID != nil {
			from = *t.parentID
		}
		changes = append(changes, FieldChange{Field: "parent_id", From: from, To: *c.ParentID})
		pid := *c.ParentID
		t.parentID = &pid
	}

	if len(changes) > 0 {
		t.touch()
	}
	return changes, nil
}

func (t *Ticket) validateChanges(c Changes) error {
	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if title == "" {
			return errors.NewValidationError("title cannot be empty")
		}
		if len(title) > maxTitleLength {
			return errors.NewValidationError(fmt.Sprintf("title exceeds maximum length of %d characters", maxTitleLength))
		}
	}
	if c.Description != nil {
		if strings.TrimSpace(*c.Description) == "" {
			return errors.NewValidationError("description cannot be empty")
		}
		if len(*c.Description) > maxDescriptionLength {
			return errors.NewValidationError(fmt.Sprintf("description exceeds maximum length of %d characters", maxDescriptionLength))
		}
	}
	if c.TicketType != nil && !c.TicketType.IsValid() {
		return errors.NewValidationError("invalid ticket_type", string(*c.TicketType))
	}
	if c.Priority != nil && !c.Priority.IsValid() {
		return errors.NewValidationError("invalid priority", string(*c.Priority))
	}
	if c.WorkPriority != nil && *c.WorkPriority < 0 {
		return errors.NewValidationError("work_priority must be zero or greater")
	}
	if c.ParentID != nil && *c.ParentID == 0 {
		return errors.NewValidationError("parent_id must be a ticket ID")
	}
	if c.ParentID != nil && *c.ParentID == t.id {
		return errors.NewValidationError("a ticket cannot be its own parent")
	}
	return nil
}
