package usecases

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/constants"
	"github.com/docket-dev/docket/internal/shared/errors"
)

type mockTicketRepository struct {
	CreateFunc               func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc               func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc              func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	GetByClientReferenceFunc func(ctx context.Context, projectID, ref string) (*ticket.Ticket, error)
	SoftDeleteFunc           func(ctx context.Context, ticketID uint, at time.Time) error
	ListFunc                 func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
	CountByStatusFunc        func(ctx context.Context, projectID string) (map[vo.TicketStatus]int64, error)
	CountByTypeFunc          func(ctx context.Context, projectID string) (map[vo.TicketType]int64, error)
	CountByPriorityFunc      func(ctx context.Context, projectID string) (map[vo.Priority]int64, error)
	ListWorkQueueFunc        func(ctx context.Context, projectID string) ([]*ticket.Ticket, error)
	ListReworkFunc           func(ctx context.Context, projectID string) ([]*ticket.Ticket, error)
	ListFollowUpsFunc        func(ctx context.Context, projectID string, now time.Time) ([]*ticket.Ticket, error)
	ListOldestNewFunc        func(ctx context.Context, projectID string, limit int) ([]*ticket.Ticket, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
}

func (m *mockTicketRepository) GetByClientReference(ctx context.Context, projectID, ref string) (*ticket.Ticket, error) {
	if m.GetByClientReferenceFunc != nil {
		return m.GetByClientReferenceFunc(ctx, projectID, ref)
	}
	return nil, nil
}

func (m *mockTicketRepository) SoftDelete(ctx context.Context, ticketID uint, at time.Time) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, ticketID, at)
	}
	return nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) CountByStatus(ctx context.Context, projectID string) (map[vo.TicketStatus]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, projectID)
	}
	return map[vo.TicketStatus]int64{}, nil
}

func (m *mockTicketRepository) CountByType(ctx context.Context, projectID string) (map[vo.TicketType]int64, error) {
	if m.CountByTypeFunc != nil {
		return m.CountByTypeFunc(ctx, projectID)
	}
	return map[vo.TicketType]int64{}, nil
}

func (m *mockTicketRepository) CountByPriority(ctx context.Context, projectID string) (map[vo.Priority]int64, error) {
	if m.CountByPriorityFunc != nil {
		return m.CountByPriorityFunc(ctx, projectID)
	}
	return map[vo.Priority]int64{}, nil
}

func (m *mockTicketRepository) ListWorkQueue(ctx context.Context, projectID string) ([]*ticket.Ticket, error) {
	if m.ListWorkQueueFunc != nil {
		return m.ListWorkQueueFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListRework(ctx context.Context, projectID string) ([]*ticket.Ticket, error) {
	if m.ListReworkFunc != nil {
		return m.ListReworkFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListFollowUps(ctx context.Context, projectID string, now time.Time) ([]*ticket.Ticket, error) {
	if m.ListFollowUpsFunc != nil {
		return m.ListFollowUpsFunc(ctx, projectID, now)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListOldestNew(ctx context.Context, projectID string, limit int) ([]*ticket.Ticket, error) {
	if m.ListOldestNewFunc != nil {
		return m.ListOldestNewFunc(ctx, projectID, limit)
	}
	return nil, nil
}

type mockActivityRepository struct {
	AppendFunc        func(ctx context.Context, a *ticket.Activity) error
	ListByTicketFunc  func(ctx context.Context, ticketID uint, filter ticket.TimelineFilter) ([]*ticket.Activity, error)
	PromoteFunc       func(ctx context.Context, ticketID, activityID uint, approvedBy string, at time.Time) (*ticket.Activity, error)
	CountByTicketFunc func(ctx context.Context, ticketID uint) (int64, error)
}

func (m *mockActivityRepository) Append(ctx context.Context, a *ticket.Activity) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, a)
	}
	return nil
}

func (m *mockActivityRepository) ListByTicket(ctx context.Context, ticketID uint, filter ticket.TimelineFilter) ([]*ticket.Activity, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID, filter)
	}
	return nil, nil
}

func (m *mockActivityRepository) Promote(ctx context.Context, ticketID, activityID uint, approvedBy string, at time.Time) (*ticket.Activity, error) {
	if m.PromoteFunc != nil {
		return m.PromoteFunc(ctx, ticketID, activityID, approvedBy, at)
	}
	return nil, errors.NewNotFoundError(constants.ErrMsgActivityNotFound)
}

func (m *mockActivityRepository) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	if m.CountByTicketFunc != nil {
		return m.CountByTicketFunc(ctx, ticketID)
	}
	return 0, nil
}

type mockAttachmentRepository struct {
	CreateFunc       func(ctx context.Context, a *ticket.Attachment) error
	ListByTicketFunc func(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error)
}

func (m *mockAttachmentRepository) Create(ctx context.Context, a *ticket.Attachment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return a.SetID(1)
}

func (m *mockAttachmentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockNumberGenerator struct {
	NextFunc func(ctx context.Context) (int64, error)
}

func (m *mockNumberGenerator) Next(ctx context.Context) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx)
	}
	return 1, nil
}

type mockTransactor struct {
	RunFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockBlobStore struct {
	PutFunc    func(ctx context.Context, ticketID uint, originalName string, r io.Reader) (string, int64, error)
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *mockBlobStore) Put(ctx context.Context, ticketID uint, originalName string, r io.Reader) (string, int64, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, ticketID, originalName, r)
	}
	n, err := io.Copy(io.Discard, r)
	return "blob-key", n, err
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

// policyChecker answers from the built-in policy rows, like the casbin
// enforcer does after seeding.
type policyChecker struct {
	denyAll bool
}

func (p policyChecker) Allowed(scope authorization.Scope, action authorization.Action) (bool, error) {
	if p.denyAll {
		return false, nil
	}
	for _, rule := range authorization.DefaultPolicies() {
		if rule[0] == scope.String() && rule[2] == action.String() {
			return true, nil
		}
	}
	return false, nil
}

var (
	agent    = authorization.Actor{Scope: authorization.ScopeAPIKey, ID: "triage-bot", Name: "triage-bot"}
	admin    = authorization.Actor{Scope: authorization.ScopeAdminUI, ID: "alice", Name: "alice"}
	reporter = authorization.Actor{Scope: authorization.ScopeReporter, ID: "u1", Name: "Uma"}
	stranger = authorization.Actor{Scope: authorization.ScopeReporter, ID: "u2", Name: "Sam"}
)

// memStore backs the function-field mocks with maps so multi-step scenarios
// behave like a real database.
type memStore struct {
	tickets    map[uint]*ticket.Ticket
	activities []*ticket.Activity
	nextTicket uint
	nextEntry  uint
	number     int64
	updates    int
}

func newMemStore() *memStore {
	return &memStore{tickets: map[uint]*ticket.Ticket{}}
}

func (s *memStore) ticketRepo() *mockTicketRepository {
	return &mockTicketRepository{
		CreateFunc: func(_ context.Context, t *ticket.Ticket) error {
			if ref := t.ClientReferenceID(); ref != nil {
				for _, existing := range s.tickets {
					if other := existing.ClientReferenceID(); other != nil && *other == *ref && existing.ProjectID() == t.ProjectID() {
						return fmt.Errorf("failed to create ticket: %w", gorm.ErrDuplicatedKey)
					}
				}
			}
			s.nextTicket++
			s.tickets[s.nextTicket] = t
			return t.SetID(s.nextTicket)
		},
		UpdateFunc: func(_ context.Context, t *ticket.Ticket) error {
			s.updates++
			s.tickets[t.ID()] = t
			return nil
		},
		GetByIDFunc: func(_ context.Context, id uint) (*ticket.Ticket, error) {
			t, ok := s.tickets[id]
			if !ok || t.IsDeleted() {
				return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
			}
			return t, nil
		},
		GetByClientReferenceFunc: func(_ context.Context, projectID, ref string) (*ticket.Ticket, error) {
			for _, t := range s.tickets {
				if r := t.ClientReferenceID(); r != nil && *r == ref && t.ProjectID() == projectID {
					return t, nil
				}
			}
			return nil, nil
		},
		SoftDeleteFunc: func(_ context.Context, id uint, at time.Time) error {
			if _, ok := s.tickets[id]; !ok {
				return errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
			}
			return nil
		},
		CountByStatusFunc: func(_ context.Context, _ string) (map[vo.TicketStatus]int64, error) {
			out := map[vo.TicketStatus]int64{}
			for _, t := range s.tickets {
				if !t.IsDeleted() {
					out[t.Status()]++
				}
			}
			return out, nil
		},
	}
}

func (s *memStore) activityRepo() *mockActivityRepository {
	return &mockActivityRepository{
		AppendFunc: func(_ context.Context, a *ticket.Activity) error {
			s.nextEntry++
			s.activities = append(s.activities, a)
			return a.SetID(s.nextEntry)
		},
		ListByTicketFunc: func(_ context.Context, ticketID uint, filter ticket.TimelineFilter) ([]*ticket.Activity, error) {
			var out []*ticket.Activity
			for _, a := range s.activities {
				if a.TicketID() != ticketID {
					continue
				}
				if filter.Visibility != nil && a.Visibility() != *filter.Visibility {
					continue
				}
				if len(filter.ActivityTypes) > 0 && !slices.Contains(filter.ActivityTypes, a.Type()) {
					continue
				}
				out = append(out, a)
			}
			return out, nil
		},
		PromoteFunc: func(_ context.Context, ticketID, activityID uint, by string, at time.Time) (*ticket.Activity, error) {
			for _, a := range s.activities {
				if a.ID() == activityID && a.TicketID() == ticketID {
					if err := a.Promote(by, at); err != nil {
						return nil, err
					}
					return a, nil
				}
			}
			return nil, errors.NewNotFoundError(constants.ErrMsgActivityNotFound)
		},
	}
}

func (s *memStore) numberGenerator() *mockNumberGenerator {
	return &mockNumberGenerator{NextFunc: func(context.Context) (int64, error) {
		s.number++
		return s.number, nil
	}}
}

func (s *memStore) entriesFor(ticketID uint) []*ticket.Activity {
	var out []*ticket.Activity
	for _, a := range s.activities {
		if a.TicketID() == ticketID {
			out = append(out, a)
		}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
