package services

import (
	"context"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

type NotificationService struct {
	notifications domain.NotificationRepository
	log           logger.Logger
}

func NewNotificationService(notifications domain.NotificationRepository, log logger.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		log:           log,
	}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.NotificationItem, error) {
	return s.notifications.ListNotifications(ctx, userID)
}

// MarkRead flags one of the user's own notifications as read. A
// notification belonging to someone else looks like a missing one.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	notification, err := s.notifications.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return domain.ErrNotificationNotFound
	}

	return s.notifications.MarkRead(ctx, notificationID)
}
