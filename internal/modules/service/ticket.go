package service

import (
	"context"
	"errors"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TicketService interface {
	Create(ctx context.Context, principal *model.User, in CreateTicketInput) (*model.Ticket, error)
	ListMine(ctx context.Context, principal *model.User) ([]model.Ticket, error)
	// ListAll is the admin support queue across every author.
	ListAll(ctx context.Context, principal *model.User) ([]model.Ticket, error)
	// UpdateStatus advances a ticket through the support workflow and tells
	// the author. Admin-only.
	UpdateStatus(ctx context.Context, principal *model.User, id uuid.UUID, status string) (*model.Ticket, error)
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
}

type ticketService struct {
	tickets       repo.TicketRepo
	notifications NotificationService
	bus           realtime.Bus
	log           *zap.Logger
}

func NewTicketService(tickets repo.TicketRepo, notifications NotificationService, bus realtime.Bus, log *zap.Logger) TicketService {
	return &ticketService{tickets: tickets, notifications: notifications, bus: bus, log: log}
}

type CreateTicketInput struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

func validTicketPriority(p string) bool {
	switch p {
	case model.TicketPriorityLow, model.TicketPriorityMedium, model.TicketPriorityHigh:
		return true
	}
	return false
}

func validTicketStatus(s string) bool {
	switch s {
	case model.TicketStatusOpen, model.TicketStatusInProgress, model.TicketStatusResolved:
		return true
	}
	return false
}

func (s *ticketService) Create(ctx context.Context, principal *model.User, in CreateTicketInput) (*model.Ticket, error) {
	priority := in.Priority
	if !validTicketPriority(priority) {
		priority = model.TicketPriorityMedium
	}

	t := &model.Ticket{
		AuthorID: principal.ID,
		Title:    in.Title,
		Message:  in.Message,
		Priority: priority,
		Status:   model.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, t.AuthorID)
	return t, nil
}

func (s *ticketService) ListMine(ctx context.Context, principal *model.User) ([]model.Ticket, error) {
	return s.tickets.ListByAuthor(ctx, principal.ID)
}

func (s *ticketService) ListAll(ctx context.Context, principal *model.User) ([]model.Ticket, error) {
	if !roles.CanManageTickets(principal.Role) {
		return nil, ErrForbidden
	}
	return s.tickets.ListAll(ctx)
}

func (s *ticketService) UpdateStatus(ctx context.Context, principal *model.User, id uuid.UUID, status string) (*model.Ticket, error) {
	if !roles.CanManageTickets(principal.Role) {
		return nil, ErrForbidden
	}
	if !validTicketStatus(status) {
		return nil, ErrInvalidStatus
	}

	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.notifications.Notify(ctx, &model.Notification{
		RecipientID: t.AuthorID,
		Type:        model.NotificationTypeTicketUpdate,
		Title:       "Ticket status updated",
		Message:     t.Title + ": " + status,
		EntityType:  "ticket",
		EntityID:    t.ID,
	})

	s.publish(ctx, t.AuthorID)
	return s.tickets.Get(ctx, id)
}

func (s *ticketService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if t.AuthorID != principal.ID && !roles.IsAdminRole(principal.Role) {
		return ErrForbidden
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, t.AuthorID)
	return nil
}

// publish fans a ticket change out to the author's stream and to the admin
// queue stream.
func (s *ticketService) publish(ctx context.Context, authorID uuid.UUID) {
	for _, scope := range []string{authorID.String(), realtime.AdminScope} {
		err := s.bus.Publish(ctx, realtime.Event{
			Entity:   realtime.EntityTickets,
			ScopeKey: scope,
		})
		if err != nil {
			s.log.Warn("failed to publish tickets change event", zap.Error(err))
		}
	}
}
