package services

import (
	"fmt"

	"github.com/teamqa/teamqa-api/internal/constants"
	"github.com/teamqa/teamqa-api/internal/logger"
	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
)

// NotificationService records activity events. Recording is fire-and-forget:
// it never blocks or fails the action that triggered it.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	log              *logger.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository, log *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		log:              log,
	}
}

// Notify inserts a notification row. Self-notification is suppressed and
// write failures are logged and swallowed.
func (s *NotificationService) Notify(notification *models.Notification) {
	if notification.RecipientID == notification.ActorID {
		return
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		s.log.WithUser(notification.ActorID).Error("failed to record notification",
			"type", notification.Type,
			"recipient_id", notification.RecipientID,
			"error", err)
	}
}

// List returns the recipient's notifications newest first, with the unread
// count for badge rendering.
func (s *NotificationService) List(recipientID uint64, page, pageSize int) ([]models.Notification, int64, int64, error) {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if pageSize < constants.MinPageSize || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	notifications, total, err := s.notificationRepo.ListByRecipient(recipientID, page, pageSize)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(recipientID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, total, unread, nil
}

// MarkRead marks one of the recipient's notifications as read.
func (s *NotificationService) MarkRead(recipientID, notificationID uint64) error {
	return s.notificationRepo.MarkRead(recipientID, notificationID)
}

// MarkAllRead marks all of the recipient's notifications as read.
func (s *NotificationService) MarkAllRead(recipientID uint64) error {
	return s.notificationRepo.MarkAllRead(recipientID)
}
