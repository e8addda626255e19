package models

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	QuestionID uint64         `gorm:"not null;index" json:"question_id"`
	AuthorID   uint64         `gorm:"not null;index" json:"author_id"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Score      int64          `gorm:"not null;default:0" json:"score"`
	IsAccepted bool           `gorm:"not null;default:false" json:"is_accepted"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Question Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Author   User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
