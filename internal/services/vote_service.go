package services

import (
	"errors"
	"fmt"

	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrVoteTargetNotFound = errors.New("vote target not found")
	ErrInvalidVote        = errors.New("invalid vote target or direction")
)

// VoteService provides business logic for voting operations.
type VoteService struct {
	voteRepo      repository.VoteRepository
	questionRepo  repository.QuestionRepository
	answerRepo    repository.AnswerRepository
	teamRepo      repository.TeamRepository
	notifications *NotificationService
}

// NewVoteService creates a new VoteService.
func NewVoteService(
	voteRepo repository.VoteRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	teamRepo repository.TeamRepository,
	notifications *NotificationService,
) *VoteService {
	return &VoteService{
		voteRepo:      voteRepo,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		teamRepo:      teamRepo,
		notifications: notifications,
	}
}

// targetTeam resolves the team a votable post belongs to.
func (s *VoteService) targetTeam(targetType models.VotableType, targetID uint64) (uint64, error) {
	switch targetType {
	case models.VotableQuestion:
		question, err := s.questionRepo.FindByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrVoteTargetNotFound
			}
			return 0, fmt.Errorf("failed to find question: %w", err)
		}
		return question.TeamID, nil
	case models.VotableAnswer:
		answer, err := s.answerRepo.FindByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrVoteTargetNotFound
			}
			return 0, fmt.Errorf("failed to find answer: %w", err)
		}
		question, err := s.questionRepo.FindByID(answer.QuestionID)
		if err != nil {
			return 0, fmt.Errorf("failed to find question: %w", err)
		}
		return question.TeamID, nil
	default:
		return 0, ErrInvalidVote
	}
}

// Cast applies a vote from the member onto a question or answer, following
// the toggle/switch state machine. An up-vote that sticks notifies the
// target's author.
func (s *VoteService) Cast(voterID uint64, targetType models.VotableType, targetID uint64, direction models.VoteDirection) (*repository.VoteResult, error) {
	if !targetType.Valid() || !direction.Valid() {
		return nil, ErrInvalidVote
	}

	teamID, err := s.targetTeam(targetType, targetID)
	if err != nil {
		return nil, err
	}
	if _, err := memberOf(s.teamRepo, teamID, voterID); err != nil {
		return nil, err
	}

	result, err := s.voteRepo.Apply(voterID, targetType, targetID, direction)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoteTargetNotFound
		}
		return nil, fmt.Errorf("failed to apply vote: %w", err)
	}

	if !result.Removed && direction == models.VoteUp {
		notification := &models.Notification{
			RecipientID: result.TargetAuthorID,
			ActorID:     voterID,
			Type:        models.NotificationUpvote,
			QuestionID:  &result.QuestionID,
		}
		if targetType == models.VotableAnswer {
			notification.AnswerID = &targetID
		}
		s.notifications.Notify(notification)
	}

	return result, nil
}

// GetVote returns the member's current vote on a target, if any.
func (s *VoteService) GetVote(voterID uint64, targetType models.VotableType, targetID uint64) (*models.Vote, error) {
	if !targetType.Valid() {
		return nil, ErrInvalidVote
	}

	teamID, err := s.targetTeam(targetType, targetID)
	if err != nil {
		return nil, err
	}
	if _, err := memberOf(s.teamRepo, teamID, voterID); err != nil {
		return nil, err
	}

	vote, err := s.voteRepo.Find(voterID, targetType, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return vote, nil
}
