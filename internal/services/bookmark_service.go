package services

import (
	"errors"
	"fmt"

	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
	"gorm.io/gorm"
)

// BookmarkService provides business logic for bookmark operations.
type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	questionRepo repository.QuestionRepository
	teamRepo     repository.TeamRepository
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(
	bookmarkRepo repository.BookmarkRepository,
	questionRepo repository.QuestionRepository,
	teamRepo repository.TeamRepository,
) *BookmarkService {
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		questionRepo: questionRepo,
		teamRepo:     teamRepo,
	}
}

func (s *BookmarkService) checkQuestionAccess(questionID, userID uint64) error {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to find question: %w", err)
	}
	if _, err := memberOf(s.teamRepo, question.TeamID, userID); err != nil {
		return err
	}
	return nil
}

// Toggle bookmarks the question if it is not bookmarked yet, and removes the
// bookmark otherwise. Reports whether the bookmark now exists.
func (s *BookmarkService) Toggle(userID, questionID uint64) (bool, error) {
	if err := s.checkQuestionAccess(questionID, userID); err != nil {
		return false, err
	}

	added, err := s.bookmarkRepo.Toggle(userID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle bookmark: %w", err)
	}
	return added, nil
}

// Check reports whether the user bookmarked the question.
func (s *BookmarkService) Check(userID, questionID uint64) (bool, error) {
	if err := s.checkQuestionAccess(questionID, userID); err != nil {
		return false, err
	}

	exists, err := s.bookmarkRepo.Exists(userID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return exists, nil
}

// List returns the user's bookmarks with their questions.
func (s *BookmarkService) List(userID uint64) ([]models.Bookmark, error) {
	bookmarks, err := s.bookmarkRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}
