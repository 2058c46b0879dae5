package service

import (
	"context"

	"memoria/internal/models"
	"memoria/internal/observability"
	"memoria/internal/repository"

	"gorm.io/gorm"
)

const (
	notificationListLimit   = 50
	notificationRecentLimit = 10
)

// NotificationService manages per-user notifications and the admin fan-out
// used by reports and mute appeals.
type NotificationService struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(userRepo repository.UserRepository, notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// FanOutToAdmins creates one notification per administrator on the caller's
// transaction, so the fan-out commits or rolls back with the triggering
// write. No admins is not an error.
func (s *NotificationService) FanOutToAdmins(ctx context.Context, tx *gorm.DB, notificationType, title, message, link string) error {
	adminIDs, err := s.userRepo.ListAdminIDs(ctx)
	if err != nil {
		return err
	}
	if len(adminIDs) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(adminIDs))
	for _, id := range adminIDs {
		notifications = append(notifications, models.Notification{
			UserID:  id,
			Type:    notificationType,
			Title:   title,
			Message: message,
			Link:    link,
		})
	}

	if err := s.notificationRepo.CreateBatch(ctx, tx, notifications); err != nil {
		return err
	}
	observability.NotificationsFannedOut.WithLabelValues(notificationType).Add(float64(len(notifications)))
	return nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, notificationListLimit)
}

// Recent returns the user's ten most recent notifications.
func (s *NotificationService) Recent(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, notificationRecentLimit)
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// MarkRead marks one of the user's own notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.NewForbiddenError("You cannot modify this notification")
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
