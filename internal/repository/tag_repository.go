package repository

import (
	"github.com/teamqa/teamqa-api/internal/models"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// ListByTeam lists a team's tags, most used first
func (r *GormTagRepository) ListByTeam(teamID uint64) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Where("team_id = ?", teamID).
		Order("question_count DESC, name ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
