package dto

import (
	"time"

	"github.com/teamqa/teamqa-api/internal/models"
)

// QuestionDTO is the public representation of a question.
type QuestionDTO struct {
	ID             uint64    `json:"id"`
	TeamID         uint64    `json:"team_id"`
	Author         UserDTO   `json:"author"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Tags           []string  `json:"tags"`
	ViewCount      int64     `json:"view_count"`
	Score          int64     `json:"score"`
	AnswerCount    int64     `json:"answer_count"`
	IsClosed       bool      `json:"is_closed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// ToQuestionDTO converts a question to DTO
func ToQuestionDTO(question models.Question) QuestionDTO {
	tags := make([]string, len(question.Tags))
	for i, tag := range question.Tags {
		tags[i] = tag.Name
	}

	return QuestionDTO{
		ID:             question.ID,
		TeamID:         question.TeamID,
		Author:         ToUserDTO(question.Author),
		Title:          question.Title,
		Body:           question.Body,
		Tags:           tags,
		ViewCount:      question.ViewCount,
		Score:          question.Score,
		AnswerCount:    question.AnswerCount,
		IsClosed:       question.IsClosed,
		CreatedAt:      question.CreatedAt,
		UpdatedAt:      question.UpdatedAt,
		LastActivityAt: question.LastActivityAt,
	}
}

// ToQuestionDTOs converts a slice of questions
func ToQuestionDTOs(questions []models.Question) []QuestionDTO {
	out := make([]QuestionDTO, len(questions))
	for i, question := range questions {
		out[i] = ToQuestionDTO(question)
	}
	return out
}

// TagDTO is one entry of a team's tag roster.
type TagDTO struct {
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

// ToTagDTO converts a tag to DTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		Name:          tag.Name,
		QuestionCount: tag.QuestionCount,
	}
}

// BookmarkDTO represents a bookmarked question.
type BookmarkDTO struct {
	Question  QuestionDTO `json:"question"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToBookmarkDTO converts a bookmark to DTO
func ToBookmarkDTO(bookmark models.Bookmark) BookmarkDTO {
	return BookmarkDTO{
		Question:  ToQuestionDTO(bookmark.Question),
		CreatedAt: bookmark.CreatedAt,
	}
}
