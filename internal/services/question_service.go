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
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotQuestionOwner = errors.New("only the author can edit this question")
	ErrNotModerator     = errors.New("only the author or a team admin can do this")
	ErrEmptyTitle       = errors.New("question title cannot be empty")
	ErrEmptyBody        = errors.New("question body cannot be empty")
	ErrTooManyTags      = errors.New("a question carries at most five tags")
)

// QuestionService provides business logic for question operations.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	teamRepo     repository.TeamRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo repository.QuestionRepository, teamRepo repository.TeamRepository) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		teamRepo:     teamRepo,
	}
}

// normalizeTags lowercases, trims and dedupes tag names, preserving order.
func normalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// CreateQuestionInput represents parameters to post a question.
type CreateQuestionInput struct {
	TeamID   uint64
	AuthorID uint64
	Title    string
	Body     string
	Tags     []string
}

// CreateQuestion posts a question into the author's team.
func (s *QuestionService) CreateQuestion(input CreateQuestionInput) (*models.Question, error) {
	if _, err := memberOf(s.teamRepo, input.TeamID, input.AuthorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrEmptyBody
	}

	tags := normalizeTags(input.Tags)
	if len(tags) > constants.MaxTagsPerQuestion {
		return nil, ErrTooManyTags
	}

	question := &models.Question{
		TeamID:   input.TeamID,
		AuthorID: input.AuthorID,
		Title:    input.Title,
		Body:     input.Body,
	}

	if err := s.questionRepo.CreateWithTags(question, tags); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, nil
}

// GetQuestion returns a question for a team member, bumping the view count
// as a side effect of the read.
func (s *QuestionService) GetQuestion(id, viewerID uint64) (*models.Question, error) {
	question, err := s.questionRepo.FindByID(id, "Author", "Tags")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	if _, err := memberOf(s.teamRepo, question.TeamID, viewerID); err != nil {
		return nil, err
	}

	if err := s.questionRepo.IncrementViewCount(id); err != nil {
		return nil, fmt.Errorf("failed to bump view count: %w", err)
	}
	question.ViewCount++

	return question, nil
}

// ListQuestions lists a team's questions for a member.
func (s *QuestionService) ListQuestions(viewerID uint64, filter repository.QuestionFilter) ([]models.Question, int64, error) {
	if _, err := memberOf(s.teamRepo, filter.TeamID, viewerID); err != nil {
		return nil, 0, err
	}

	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))

	questions, total, err := s.questionRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

// UpdateQuestionInput holds the editable question fields. A nil Tags leaves
// the tag set untouched; a non-nil value replaces it wholesale.
type UpdateQuestionInput struct {
	Title   *string
	Body    *string
	Tags    []string
	HasTags bool
}

// UpdateQuestion edits a question. Editing is owner-only.
func (s *QuestionService) UpdateQuestion(id, actorID uint64, input UpdateQuestionInput) (*models.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	if question.AuthorID != actorID {
		return nil, ErrNotQuestionOwner
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrEmptyTitle
		}
		question.Title = *input.Title
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, ErrEmptyBody
		}
		question.Body = *input.Body
	}

	var tags []string
	if input.HasTags {
		tags = normalizeTags(input.Tags)
		if len(tags) > constants.MaxTagsPerQuestion {
			return nil, ErrTooManyTags
		}
		if tags == nil {
			tags = []string{}
		}
	}

	if err := s.questionRepo.UpdateWithTags(question, tags); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return question, nil
}

// DeleteQuestion deletes a question with all of its dependents. Deletion is
// allowed for the author and for team admins.
func (s *QuestionService) DeleteQuestion(id, actorID uint64) error {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to find question: %w", err)
	}

	allowed, err := canModerate(s.teamRepo, question.TeamID, actorID, question.AuthorID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotModerator
	}

	if err := s.questionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// SetClosed closes or reopens a question, for the author or a team admin.
func (s *QuestionService) SetClosed(id, actorID uint64, closed bool) (*models.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	allowed, err := canModerate(s.teamRepo, question.TeamID, actorID, question.AuthorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotModerator
	}

	if err := s.questionRepo.SetClosed(id, closed); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	question.IsClosed = closed

	return question, nil
}
