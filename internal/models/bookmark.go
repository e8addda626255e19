package models

import "time"

type Bookmark struct {
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	QuestionID uint64    `gorm:"primarykey" json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Question Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}
