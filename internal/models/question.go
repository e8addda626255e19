package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	TeamID         uint64         `gorm:"not null;index" json:"team_id"`
	AuthorID       uint64         `gorm:"not null;index" json:"author_id"`
	Title          string         `gorm:"type:varchar(300);not null" json:"title"`
	Body           string         `gorm:"type:text;not null" json:"body"`
	ViewCount      int64          `gorm:"not null;default:0" json:"view_count"`
	Score          int64          `gorm:"not null;default:0" json:"score"`
	AnswerCount    int64          `gorm:"not null;default:0" json:"answer_count"`
	IsClosed       bool           `gorm:"not null;default:false" json:"is_closed"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	LastActivityAt time.Time      `gorm:"index" json:"last_activity_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team    Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Author  User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	Tags    []Tag    `gorm:"many2many:question_tags;" json:"tags,omitempty"`
}
