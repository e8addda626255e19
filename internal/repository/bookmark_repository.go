package repository

import (
	"errors"

	"github.com/teamqa/teamqa-api/internal/models"
	"gorm.io/gorm"
)

// GormBookmarkRepository is a GORM implementation of BookmarkRepository
type GormBookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new BookmarkRepository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &GormBookmarkRepository{db: db}
}

// Toggle adds the bookmark if absent, removes it if present
func (r *GormBookmarkRepository) Toggle(userID, questionID uint64) (bool, error) {
	var added bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Bookmark
		err := tx.Where("user_id = ? AND question_id = ?", userID, questionID).
			First(&existing).Error
		if err == nil {
			added = false
			return tx.Where("user_id = ? AND question_id = ?", userID, questionID).
				Delete(&models.Bookmark{}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		added = true
		return tx.Create(&models.Bookmark{UserID: userID, QuestionID: questionID}).Error
	})
	return added, err
}

// Exists reports whether the user bookmarked the question
func (r *GormBookmarkRepository) Exists(userID, questionID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser lists the user's bookmarks with questions preloaded, newest first
func (r *GormBookmarkRepository) ListByUser(userID uint64) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Preload("Question").Preload("Question.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}
