package repository

import (
	"time"

	"github.com/teamqa/teamqa-api/internal/models"
	"gorm.io/gorm"
)

// GormAnswerRepository is a GORM implementation of AnswerRepository
type GormAnswerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository creates a new AnswerRepository
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &GormAnswerRepository{db: db}
}

// Create inserts the answer and bumps the question's answer count and
// activity timestamp atomically
func (r *GormAnswerRepository) Create(answer *models.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			Updates(map[string]interface{}{
				"answer_count":     gorm.Expr("answer_count + 1"),
				"last_activity_at": time.Now(),
			}).Error
	})
}

// FindByID finds an answer by ID with optional preloading
func (r *GormAnswerRepository) FindByID(id uint64, preload ...string) (*models.Answer, error) {
	var answer models.Answer
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// ListByQuestion lists a question's answers, accepted first then by score
func (r *GormAnswerRepository) ListByQuestion(questionID uint64) ([]models.Answer, error) {
	var answers []models.Answer
	if err := r.db.Preload("Author").
		Where("question_id = ?", questionID).
		Order("is_accepted DESC, score DESC, created_at ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

// Update updates an answer
func (r *GormAnswerRepository) Update(answer *models.Answer) error {
	return r.db.Save(answer).Error
}

// Delete removes the answer with its comments and votes, decrementing the
// question's answer count (floored at zero)
func (r *GormAnswerRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, id).Error; err != nil {
			return err
		}

		if err := tx.Where("parent_type = ? AND parent_id = ?",
			models.CommentParentAnswer, id).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("votable_type = ? AND votable_id = ?",
			models.VotableAnswer, id).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Answer{}, id).Error; err != nil {
			return err
		}

		return tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			Update("answer_count",
				gorm.Expr("CASE WHEN answer_count > 0 THEN answer_count - 1 ELSE 0 END")).Error
	})
}

// Accept marks the answer accepted after clearing any other accepted answer
// on the same question, so at most one answer is ever accepted.
func (r *GormAnswerRepository) Accept(questionID, answerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND is_accepted = ?", questionID, true).
			Update("is_accepted", false).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Answer{}).
			Where("id = ?", answerID).
			Update("is_accepted", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			Update("last_activity_at", time.Now()).Error
	})
}
