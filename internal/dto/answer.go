package dto

import (
	"time"

	"github.com/teamqa/teamqa-api/internal/models"
)

// AnswerDTO is the public representation of an answer.
type AnswerDTO struct {
	ID         uint64    `json:"id"`
	QuestionID uint64    `json:"question_id"`
	Author     UserDTO   `json:"author"`
	Body       string    `json:"body"`
	Score      int64     `json:"score"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToAnswerDTO converts an answer to DTO
func ToAnswerDTO(answer models.Answer) AnswerDTO {
	return AnswerDTO{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		Author:     ToUserDTO(answer.Author),
		Body:       answer.Body,
		Score:      answer.Score,
		IsAccepted: answer.IsAccepted,
		CreatedAt:  answer.CreatedAt,
		UpdatedAt:  answer.UpdatedAt,
	}
}

// ToAnswerDTOs converts a slice of answers
func ToAnswerDTOs(answers []models.Answer) []AnswerDTO {
	out := make([]AnswerDTO, len(answers))
	for i, answer := range answers {
		out[i] = ToAnswerDTO(answer)
	}
	return out
}

// CommentDTO is the public representation of a comment.
type CommentDTO struct {
	ID         uint64                   `json:"id"`
	ParentType models.CommentParentType `json:"parent_type"`
	ParentID   uint64                   `json:"parent_id"`
	Author     UserDTO                  `json:"author"`
	Body       string                   `json:"body"`
	CreatedAt  time.Time                `json:"created_at"`
}

// ToCommentDTO converts a comment to DTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:         comment.ID,
		ParentType: comment.ParentType,
		ParentID:   comment.ParentID,
		Author:     ToUserDTO(comment.Author),
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		out[i] = ToCommentDTO(comment)
	}
	return out
}
