package dto

import (
	"time"

	"github.com/teamqa/teamqa-api/internal/models"
)

// NotificationDTO is the public representation of a notification.
type NotificationDTO struct {
	ID         uint64                  `json:"id"`
	Type       models.NotificationType `json:"type"`
	Actor      UserDTO                 `json:"actor"`
	QuestionID *uint64                 `json:"question_id,omitempty"`
	AnswerID   *uint64                 `json:"answer_id,omitempty"`
	CommentID  *uint64                 `json:"comment_id,omitempty"`
	IsRead     bool                    `json:"is_read"`
	CreatedAt  time.Time               `json:"created_at"`
}

// ToNotificationDTO converts a notification to DTO
func ToNotificationDTO(notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:         notification.ID,
		Type:       notification.Type,
		Actor:      ToUserDTO(notification.Actor),
		QuestionID: notification.QuestionID,
		AnswerID:   notification.AnswerID,
		CommentID:  notification.CommentID,
		IsRead:     notification.IsRead,
		CreatedAt:  notification.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i, notification := range notifications {
		out[i] = ToNotificationDTO(notification)
	}
	return out
}
