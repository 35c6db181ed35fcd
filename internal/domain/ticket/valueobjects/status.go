package valueobjects

import (
	"fmt"
	"slices"
)

type TicketStatus string

const (
	StatusNew        TicketStatus = "new"
	StatusTriaged    TicketStatus = "triaged"
	StatusApproved   TicketStatus = "approved"
	StatusInProgress TicketStatus = "in_progress"
	StatusInReview   TicketStatus = "in_review"
	StatusUserReview TicketStatus = "user_review"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// allStatuses is ordered along the happy path.
var allStatuses = []TicketStatus{
	StatusNew,
	StatusTriaged,
	StatusApproved,
	StatusInProgress,
	StatusInReview,
	StatusUserReview,
	StatusResolved,
	StatusClosed,
}

// ticketStatusTransitions is the single source of truth for legal status changes.
// Every status-mutating operation on a ticket goes through CanTransitionTo.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusNew: {
		StatusTriaged,
		StatusClosed,
	},
	StatusTriaged: {
		StatusApproved,
		StatusInProgress,
		StatusClosed,
	},
	StatusApproved: {
		StatusInProgress,
		StatusInReview,
		StatusClosed,
	},
	StatusInProgress: {
		StatusInReview,
		StatusClosed,
	},
	StatusInReview: {
		StatusUserReview,
		StatusInProgress,
		StatusClosed,
	},
	StatusUserReview: {
		StatusResolved,
		StatusInProgress,
		StatusClosed,
	},
	StatusResolved: {},
	StatusClosed:   {},
}

// AllStatuses returns every status in workflow order.
func AllStatuses() []TicketStatus {
	return slices.Clone(allStatuses)
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	_, ok := ticketStatusTransitions[ts]
	return ok
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	return slices.Contains(ticketStatusTransitions[ts], newStatus)
}

// AllowedTransitions returns the statuses reachable in one step.
func (ts TicketStatus) AllowedTransitions() []TicketStatus {
	return slices.Clone(ticketStatusTransitions[ts])
}

// IsTerminal reports whether no further transitions are possible.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusResolved || ts == StatusClosed
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// StatusStrings converts statuses for error details and query parameters.
func StatusStrings(statuses []TicketStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
