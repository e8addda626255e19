package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamqa/teamqa-api/internal/constants"
	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrEmptyCommentBody  = errors.New("comment body cannot be empty")
	ErrCommentTooLong    = errors.New("comment body exceeds the maximum length")
	ErrInvalidParentType = errors.New("parent must be a question or an answer")
)

// commentParent is the resolved parent post of a comment.
type commentParent struct {
	authorID   uint64
	questionID uint64
	teamID     uint64
}

// CommentService provides business logic for comment operations.
type CommentService struct {
	commentRepo   repository.CommentRepository
	questionRepo  repository.QuestionRepository
	answerRepo    repository.AnswerRepository
	teamRepo      repository.TeamRepository
	notifications *NotificationService
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	teamRepo repository.TeamRepository,
	notifications *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		teamRepo:      teamRepo,
		notifications: notifications,
	}
}

// resolveParent loads the post a comment hangs off and the team it lives in.
func (s *CommentService) resolveParent(parentType models.CommentParentType, parentID uint64) (*commentParent, error) {
	switch parentType {
	case models.CommentParentQuestion:
		question, err := s.questionRepo.FindByID(parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrQuestionNotFound
			}
			return nil, fmt.Errorf("failed to find question: %w", err)
		}
		return &commentParent{
			authorID:   question.AuthorID,
			questionID: question.ID,
			teamID:     question.TeamID,
		}, nil
	case models.CommentParentAnswer:
		answer, err := s.answerRepo.FindByID(parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAnswerNotFound
			}
			return nil, fmt.Errorf("failed to find answer: %w", err)
		}
		question, err := s.questionRepo.FindByID(answer.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("failed to find question: %w", err)
		}
		return &commentParent{
			authorID:   answer.AuthorID,
			questionID: question.ID,
			teamID:     question.TeamID,
		}, nil
	default:
		return nil, ErrInvalidParentType
	}
}

// CreateComment posts a comment under a question or answer.
func (s *CommentService) CreateComment(parentType models.CommentParentType, parentID, authorID uint64, body string) (*models.Comment, error) {
	parent, err := s.resolveParent(parentType, parentID)
	if err != nil {
		return nil, err
	}

	if _, err := memberOf(s.teamRepo, parent.teamID, authorID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyCommentBody
	}
	if len(body) > constants.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	comment := &models.Comment{
		ParentType: parentType,
		ParentID:   parentID,
		AuthorID:   authorID,
		Body:       body,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.notifications.Notify(&models.Notification{
		RecipientID: parent.authorID,
		ActorID:     authorID,
		Type:        models.NotificationComment,
		QuestionID:  &parent.questionID,
		CommentID:   &comment.ID,
	})

	return comment, nil
}

// ListComments lists a post's comments for a team member.
func (s *CommentService) ListComments(parentType models.CommentParentType, parentID, viewerID uint64) ([]models.Comment, error) {
	parent, err := s.resolveParent(parentType, parentID)
	if err != nil {
		return nil, err
	}
	if _, err := memberOf(s.teamRepo, parent.teamID, viewerID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByParent(parentType, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment, for the author or a team admin.
func (s *CommentService) DeleteComment(id, actorID uint64) error {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	parent, err := s.resolveParent(comment.ParentType, comment.ParentID)
	if err != nil {
		return err
	}

	allowed, err := canModerate(s.teamRepo, parent.teamID, actorID, comment.AuthorID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotModerator
	}

	if err := s.commentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
