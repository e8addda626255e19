package models

import (
	"time"

	"gorm.io/gorm"
)

// CommentParentType identifies what kind of post a comment is attached to.
type CommentParentType string

const (
	CommentParentQuestion CommentParentType = "question"
	CommentParentAnswer   CommentParentType = "answer"
)

// Valid reports whether the parent type is one of the known kinds.
func (t CommentParentType) Valid() bool {
	return t == CommentParentQuestion || t == CommentParentAnswer
}

type Comment struct {
	ID         uint64            `gorm:"primarykey" json:"id"`
	ParentType CommentParentType `gorm:"type:varchar(20);not null;index:idx_comments_parent" json:"parent_type"`
	ParentID   uint64            `gorm:"not null;index:idx_comments_parent" json:"parent_id"`
	AuthorID   uint64            `gorm:"not null;index" json:"author_id"`
	Body       string            `gorm:"type:varchar(600);not null" json:"body"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
