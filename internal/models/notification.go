package models

import "time"

type NotificationType string

const (
	NotificationMention  NotificationType = "mention"
	NotificationAnswer   NotificationType = "answer"
	NotificationComment  NotificationType = "comment"
	NotificationUpvote   NotificationType = "upvote"
	NotificationAccepted NotificationType = "accepted"
)

type Notification struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	RecipientID uint64           `gorm:"not null;index" json:"recipient_id"`
	ActorID     uint64           `gorm:"not null" json:"actor_id"`
	Type        NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	QuestionID  *uint64          `json:"question_id,omitempty"`
	AnswerID    *uint64          `json:"answer_id,omitempty"`
	CommentID   *uint64          `json:"comment_id,omitempty"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`

	// Relations
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
