package service

import (
	"context"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService interface {
	Send(ctx context.Context, principal *model.User, projectID uuid.UUID, body string) (*model.ChatMessage, error)
	// List returns the project's messages oldest first.
	List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]model.ChatMessage, error)
	// Delete removes a message. Only the sender or an admin may.
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
}

type chatService struct {
	messages repo.ChatMessageRepo
	projects repo.ProjectRepo
	bus      realtime.Bus
	log      *zap.Logger
}

func NewChatService(messages repo.ChatMessageRepo, projects repo.ProjectRepo, bus realtime.Bus, log *zap.Logger) ChatService {
	return &chatService{messages: messages, projects: projects, bus: bus, log: log}
}

func (s *chatService) Send(ctx context.Context, principal *model.User, projectID uuid.UUID, body string) (*model.ChatMessage, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}

	m := &model.ChatMessage{
		ProjectID:  projectID,
		SenderID:   principal.ID,
		SenderName: principal.DisplayName,
		Body:       body,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	s.publish(ctx, projectID)
	return m, nil
}

func (s *chatService) List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]model.ChatMessage, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}
	return s.messages.ListByProject(ctx, projectID)
}

func (s *chatService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	m, err := s.messages.Get(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if m.SenderID != principal.ID && !roles.IsAdminRole(principal.Role) {
		return ErrForbidden
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, m.ProjectID)
	return nil
}

func (s *chatService) publish(ctx context.Context, projectID uuid.UUID) {
	err := s.bus.Publish(ctx, realtime.Event{
		Entity:   realtime.EntityMessages,
		ScopeKey: projectID.String(),
	})
	if err != nil {
		s.log.Warn("failed to publish messages change event", zap.Error(err))
	}
}
