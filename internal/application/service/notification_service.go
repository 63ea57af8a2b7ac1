package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// NotificationService exposes a user's own in-app notifications.
type NotificationService struct {
	notifications port.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService creates a notification service.
func NewNotificationService(notifications port.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		logger:        logger,
	}
}

// List returns the actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor workflow.Actor) ([]*entity.Notification, error) {
	return s.notifications.FindByUser(ctx, actor.ID)
}

// MarkRead acknowledges one of the actor's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, actor workflow.Actor, id string) error {
	return s.notifications.MarkRead(ctx, id, actor.ID)
}

// MarkAllRead acknowledges all of the actor's notifications.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor workflow.Actor) error {
	return s.notifications.MarkAllRead(ctx, actor.ID)
}
