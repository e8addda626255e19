package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrNotAnswerOwner   = errors.New("only the author can edit this answer")
	ErrEmptyAnswerBody  = errors.New("answer body cannot be empty")
	ErrQuestionIsClosed = errors.New("question is closed to new answers")
)

// AnswerService provides business logic for answer operations.
type AnswerService struct {
	answerRepo    repository.AnswerRepository
	questionRepo  repository.QuestionRepository
	teamRepo      repository.TeamRepository
	notifications *NotificationService
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	teamRepo repository.TeamRepository,
	notifications *NotificationService,
) *AnswerService {
	return &AnswerService{
		answerRepo:    answerRepo,
		questionRepo:  questionRepo,
		teamRepo:      teamRepo,
		notifications: notifications,
	}
}

func (s *AnswerService) findQuestion(id uint64) (*models.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return question, nil
}

// CreateAnswer posts an answer. Closed questions only take answers from the
// question's author or a team admin.
func (s *AnswerService) CreateAnswer(questionID, authorID uint64, body string) (*models.Answer, error) {
	question, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}

	member, err := memberOf(s.teamRepo, question.TeamID, authorID)
	if err != nil {
		return nil, err
	}

	if question.IsClosed && question.AuthorID != authorID && member.Role != models.RoleAdmin {
		return nil, ErrQuestionIsClosed
	}

	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyAnswerBody
	}

	answer := &models.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       body,
	}

	if err := s.answerRepo.Create(answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	s.notifications.Notify(&models.Notification{
		RecipientID: question.AuthorID,
		ActorID:     authorID,
		Type:        models.NotificationAnswer,
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
	})

	return answer, nil
}

// ListAnswers lists a question's answers for a team member.
func (s *AnswerService) ListAnswers(questionID, viewerID uint64) ([]models.Answer, error) {
	question, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if _, err := memberOf(s.teamRepo, question.TeamID, viewerID); err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListByQuestion(questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

// UpdateAnswer edits an answer's body. Editing is owner-only.
func (s *AnswerService) UpdateAnswer(id, actorID uint64, body string) (*models.Answer, error) {
	answer, err := s.answerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}

	if answer.AuthorID != actorID {
		return nil, ErrNotAnswerOwner
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyAnswerBody
	}

	answer.Body = body
	if err := s.answerRepo.Update(answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}

	return answer, nil
}

// DeleteAnswer removes an answer, for the author or a team admin.
func (s *AnswerService) DeleteAnswer(id, actorID uint64) error {
	answer, err := s.answerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("failed to find answer: %w", err)
	}

	question, err := s.findQuestion(answer.QuestionID)
	if err != nil {
		return err
	}

	allowed, err := canModerate(s.teamRepo, question.TeamID, actorID, answer.AuthorID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotModerator
	}

	if err := s.answerRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return nil
}

// AcceptAnswer marks an answer as the question's accepted solution. Any team
// member may accept; a previously accepted answer is cleared first so at
// most one accepted answer exists per question.
func (s *AnswerService) AcceptAnswer(id, actorID uint64) (*models.Answer, error) {
	answer, err := s.answerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}

	question, err := s.findQuestion(answer.QuestionID)
	if err != nil {
		return nil, err
	}

	if _, err := memberOf(s.teamRepo, question.TeamID, actorID); err != nil {
		return nil, err
	}

	if err := s.answerRepo.Accept(question.ID, answer.ID); err != nil {
		return nil, fmt.Errorf("failed to accept answer: %w", err)
	}
	answer.IsAccepted = true

	s.notifications.Notify(&models.Notification{
		RecipientID: answer.AuthorID,
		ActorID:     actorID,
		Type:        models.NotificationAccepted,
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
	})

	return answer, nil
}
