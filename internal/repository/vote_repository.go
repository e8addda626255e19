package repository

import (
	"errors"
	"time"

	"github.com/teamqa/teamqa-api/internal/database"
	"github.com/teamqa/teamqa-api/internal/models"
	"gorm.io/gorm"
)

// GormVoteRepository is a GORM implementation of VoteRepository
type GormVoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &GormVoteRepository{db: db}
}

// voteTarget is the resolved votable post: its author, current score and the
// question it belongs to (itself, for questions).
type voteTarget struct {
	authorID   uint64
	questionID uint64
	teamID     uint64
}

func resolveTarget(tx *gorm.DB, targetType models.VotableType, targetID uint64) (*voteTarget, error) {
	switch targetType {
	case models.VotableQuestion:
		var question models.Question
		if err := database.LockForUpdate(tx).First(&question, targetID).Error; err != nil {
			return nil, err
		}
		return &voteTarget{
			authorID:   question.AuthorID,
			questionID: question.ID,
			teamID:     question.TeamID,
		}, nil
	case models.VotableAnswer:
		var answer models.Answer
		if err := database.LockForUpdate(tx).First(&answer, targetID).Error; err != nil {
			return nil, err
		}
		var question models.Question
		if err := tx.First(&question, answer.QuestionID).Error; err != nil {
			return nil, err
		}
		return &voteTarget{
			authorID:   answer.AuthorID,
			questionID: question.ID,
			teamID:     question.TeamID,
		}, nil
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

func scoreModel(targetType models.VotableType) interface{} {
	if targetType == models.VotableQuestion {
		return &models.Question{}
	}
	return &models.Answer{}
}

// Apply runs the vote state machine for (voter, target) in one transaction.
// States per pair are {no-vote, up, down}: a repeated direction toggles the
// vote off, the opposite direction switches it with a single +-2 delta, and
// no prior vote inserts one. Every mutation bumps the owning question's
// activity timestamp.
func (r *GormVoteRepository) Apply(voterID uint64, targetType models.VotableType, targetID uint64, direction models.VoteDirection) (*VoteResult, error) {
	var result VoteResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		target, err := resolveTarget(tx, targetType, targetID)
		if err != nil {
			return err
		}

		var existing models.Vote
		var delta int64
		err = database.LockForUpdate(tx).
			Where("votable_type = ? AND votable_id = ? AND voter_id = ?",
				targetType, targetID, voterID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				VotableType: targetType,
				VotableID:   targetID,
				VoterID:     voterID,
				Direction:   direction,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			delta = direction.Delta()
		case err != nil:
			return err
		case existing.Direction == direction:
			// Re-vote in the same direction toggles the vote off.
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return err
			}
			delta = -direction.Delta()
			result.Removed = true
		default:
			// Switch direction with no intermediate state observable.
			if err := tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				Update("direction", direction).Error; err != nil {
				return err
			}
			delta = 2 * direction.Delta()
		}

		if err := tx.Model(scoreModel(targetType)).
			Where("id = ?", targetID).
			Update("score", gorm.Expr("score + ?", delta)).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Question{}).
			Where("id = ?", target.questionID).
			Update("last_activity_at", time.Now()).Error; err != nil {
			return err
		}

		var newScore int64
		if err := tx.Model(scoreModel(targetType)).
			Where("id = ?", targetID).
			Pluck("score", &newScore).Error; err != nil {
			return err
		}

		result.Direction = direction
		result.NewScore = newScore
		result.TargetAuthorID = target.authorID
		result.QuestionID = target.questionID
		result.TeamID = target.teamID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Find returns the voter's current vote on the target, if any
func (r *GormVoteRepository) Find(voterID uint64, targetType models.VotableType, targetID uint64) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.Where("votable_type = ? AND votable_id = ? AND voter_id = ?",
		targetType, targetID, voterID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}
