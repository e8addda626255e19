package services

import (
	"errors"
	"fmt"

	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
	"gorm.io/gorm"
)

// memberOf loads the user's membership in a team, mapping a missing row to
// ErrNotTeamMember. Content services use it to team-scope every operation.
func memberOf(teamRepo repository.TeamRepository, teamID, userID uint64) (*models.TeamMember, error) {
	member, err := teamRepo.FindMember(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}

// canModerate reports whether the user owns the resource or holds the admin
// role in its team.
func canModerate(teamRepo repository.TeamRepository, teamID, userID, ownerID uint64) (bool, error) {
	if userID == ownerID {
		return true, nil
	}
	member, err := memberOf(teamRepo, teamID, userID)
	if err != nil {
		if errors.Is(err, ErrNotTeamMember) {
			return false, nil
		}
		return false, err
	}
	return member.Role == models.RoleAdmin, nil
}
