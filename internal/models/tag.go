package models

import "time"

// Tag names are lowercased and unique within a team.
type Tag struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	TeamID        uint64    `gorm:"not null;uniqueIndex:idx_tags_team_name" json:"team_id"`
	Name          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_team_name" json:"name"`
	QuestionCount int64     `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// QuestionTag links a question to a tag. A question carries at most five tags.
type QuestionTag struct {
	QuestionID uint64 `gorm:"primarykey" json:"question_id"`
	TagID      uint64 `gorm:"primarykey" json:"tag_id"`

	// Relations
	Question Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Tag      Tag      `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}
