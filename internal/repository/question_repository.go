package repository

import (
	"errors"
	"time"

	"github.com/teamqa/teamqa-api/internal/database"
	"github.com/teamqa/teamqa-api/internal/models"
	"gorm.io/gorm"
)

// GormQuestionRepository is a GORM implementation of QuestionRepository
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &GormQuestionRepository{db: db}
}

// attachTags links the question to each named tag, creating missing tags and
// incrementing their question counts. Names are expected pre-folded.
func attachTags(tx *gorm.DB, teamID, questionID uint64, names []string) error {
	for _, name := range names {
		var tag models.Tag
		err := tx.Where("team_id = ? AND name = ?", teamID, name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{TeamID: teamID, Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		link := models.QuestionTag{QuestionID: questionID, TagID: tag.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		err = tx.Model(&models.Tag{}).
			Where("id = ?", tag.ID).
			Update("question_count", gorm.Expr("question_count + 1")).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// detachAllTags removes every tag link from the question, decrementing the
// tags' question counts (floored at zero).
func detachAllTags(tx *gorm.DB, questionID uint64) error {
	var links []models.QuestionTag
	if err := tx.Where("question_id = ?", questionID).Find(&links).Error; err != nil {
		return err
	}

	for _, link := range links {
		err := tx.Model(&models.Tag{}).
			Where("id = ?", link.TagID).
			Update("question_count",
				gorm.Expr("CASE WHEN question_count > 0 THEN question_count - 1 ELSE 0 END")).Error
		if err != nil {
			return err
		}
	}

	return tx.Where("question_id = ?", questionID).Delete(&models.QuestionTag{}).Error
}

// CreateWithTags creates a question and attaches its tags atomically
func (r *GormQuestionRepository) CreateWithTags(question *models.Question, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		question.LastActivityAt = time.Now()
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		return attachTags(tx, question.TeamID, question.ID, tagNames)
	})
}

// FindByID finds a question by ID with optional preloading
func (r *GormQuestionRepository) FindByID(id uint64, preload ...string) (*models.Question, error) {
	var question models.Question
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// IncrementViewCount bumps the view counter
func (r *GormQuestionRepository) IncrementViewCount(id uint64) error {
	return r.db.Model(&models.Question{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

// List retrieves questions with filtering, sorting and pagination. The total
// is computed under the same predicate for page-count reporting.
func (r *GormQuestionRepository) List(filter QuestionFilter) ([]models.Question, int64, error) {
	var questions []models.Question

	query := r.db.Model(&models.Question{}).Where("questions.team_id = ?", filter.TeamID)

	if filter.Tag != "" {
		tagSubQuery := r.db.Model(&models.QuestionTag{}).
			Select("1").
			Joins("JOIN tags ON tags.id = question_tags.tag_id").
			Where("question_tags.question_id = questions.id").
			Where("tags.name = ?", filter.Tag)
		query = query.Where("EXISTS (?)", tagSubQuery)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("questions.title LIKE ? OR questions.body LIKE ?", like, like)
	}
	if filter.Unanswered {
		query = query.Where("questions.answer_count = 0")
	}
	if filter.Unaccepted {
		acceptedSubQuery := r.db.Model(&models.Answer{}).
			Select("1").
			Where("answers.question_id = questions.id").
			Where("answers.is_accepted = ?", true).
			Where("answers.deleted_at IS NULL")
		query = query.Where("NOT EXISTS (?)", acceptedSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	switch filter.SortBy {
	case "active":
		listQuery = listQuery.Order("questions.last_activity_at DESC")
	case "votes":
		listQuery = listQuery.Order("questions.score DESC, questions.created_at DESC")
	case "views":
		listQuery = listQuery.Order("questions.view_count DESC, questions.created_at DESC")
	default:
		listQuery = listQuery.Order("questions.created_at DESC")
	}

	listQuery = listQuery.Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Author").Preload("Tags").Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// UpdateWithTags saves the question and optionally replaces its tag set
func (r *GormQuestionRepository) UpdateWithTags(question *models.Question, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(question).Error; err != nil {
			return err
		}
		if tagNames == nil {
			return nil
		}
		// Replace-all: drop every existing link, then attach the new set,
		// so tag counts stay a pure function of the linkage.
		if err := detachAllTags(tx, question.ID); err != nil {
			return err
		}
		return attachTags(tx, question.TeamID, question.ID, tagNames)
	})
}

// SetClosed flips the is_closed flag
func (r *GormQuestionRepository) SetClosed(id uint64, closed bool) error {
	return r.db.Model(&models.Question{}).
		Where("id = ?", id).
		Update("is_closed", closed).Error
}

// Delete removes a question and everything hanging off it in one transaction
func (r *GormQuestionRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint64
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ?", id).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}

		if len(answerIDs) > 0 {
			if err := tx.Where("parent_type = ? AND parent_id IN ?",
				models.CommentParentAnswer, answerIDs).
				Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("votable_type = ? AND votable_id IN ?",
				models.VotableAnswer, answerIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("parent_type = ? AND parent_id = ?",
			models.CommentParentQuestion, id).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("votable_type = ? AND votable_id = ?",
			models.VotableQuestion, id).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := detachAllTags(tx, id); err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Question{}, id).Error
	})
}
