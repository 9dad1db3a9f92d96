package service

import (
	"context"
	"errors"

	"github.com/arabshield/portal/internal/config"
	mq "github.com/arabshield/portal/internal/infra/queue"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationService interface {
	List(ctx context.Context, recipientID uuid.UUID) ([]model.Notification, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, recipientID, id uuid.UUID) error
	// Notify persists an in-app notification, publishes the change event and,
	// when mail notifications are enabled, enqueues an email job. Delivery
	// failures are logged, never surfaced to the triggering mutation.
	Notify(ctx context.Context, n *model.Notification)
}

type notificationService struct {
	notifications repo.NotificationRepo
	users         repo.UserRepo
	settings      repo.SettingsRepo
	pub           *mq.Publisher
	bus           realtime.Bus
	cfg           *config.Config
	log           *zap.Logger
}

func NewNotificationService(
	notifications repo.NotificationRepo,
	users repo.UserRepo,
	settings repo.SettingsRepo,
	pub *mq.Publisher,
	bus realtime.Bus,
	cfg *config.Config,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		users:         users,
		settings:      settings,
		pub:           pub,
		bus:           bus,
		cfg:           cfg,
		log:           log,
	}
}

func (s *notificationService) List(ctx context.Context, recipientID uuid.UUID) ([]model.Notification, error) {
	return s.notifications.ListByRecipient(ctx, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notifications.CountUnread(ctx, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	err := s.notifications.MarkRead(ctx, id, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, recipientID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	n, err := s.notifications.MarkAllRead(ctx, recipientID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.publish(ctx, recipientID)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	if err := s.notifications.Delete(ctx, id, recipientID); err != nil {
		return err
	}
	s.publish(ctx, recipientID)
	return nil
}

func (s *notificationService) Notify(ctx context.Context, n *model.Notification) {
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Error("failed to store notification",
			zap.Error(err),
			zap.String("recipient_id", n.RecipientID.String()),
			zap.String("type", n.Type))
		return
	}
	s.publish(ctx, n.RecipientID)
	s.enqueueMail(ctx, n)
}

func (s *notificationService) publish(ctx context.Context, recipientID uuid.UUID) {
	err := s.bus.Publish(ctx, realtime.Event{
		Entity:   realtime.EntityNotifications,
		ScopeKey: recipientID.String(),
	})
	if err != nil {
		s.log.Warn("failed to publish notifications change event", zap.Error(err))
	}
}

func (s *notificationService) enqueueMail(ctx context.Context, n *model.Notification) {
	if s.pub == nil {
		return
	}
	sysCfg, err := s.settings.Get(ctx)
	if err != nil || !sysCfg.EmailNotificationsEnabled {
		return
	}
	recipient, err := s.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return
	}

	err = s.pub.PublishJSON(ctx,
		s.cfg.RabbitMQ.ExchangeName.Mail,
		s.cfg.RabbitMQ.RoutingKey.MailNotification,
		MailJobMQ{
			Kind:        n.Type,
			Email:       recipient.Email,
			DisplayName: recipient.DisplayName,
			Subject:     n.Title,
			Body:        n.Message,
		},
	)
	if err != nil {
		s.log.Warn("failed to enqueue notification mail", zap.Error(err))
	}
}
