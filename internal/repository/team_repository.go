package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/teamqa/teamqa-api/internal/database"
	"github.com/teamqa/teamqa-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithAdmin creates the team and its first admin membership atomically
func (r *GormTeamRepository) CreateWithAdmin(team *models.Team, creatorID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   creatorID,
			Role:     models.RoleAdmin,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindBySlug finds a team by slug
func (r *GormTeamRepository) FindBySlug(slug string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("slug = ?", slug).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// FindMember finds a specific team member
func (r *GormTeamRepository) FindMember(teamID, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a team
func (r *GormTeamRepository) ListMembers(teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUser lists all teams a user is a member of
func (r *GormTeamRepository) ListMembershipsByUser(userID uint64) ([]models.TeamMember, error) {
	var memberships []models.TeamMember
	if err := r.db.Preload("Team").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// AddMember adds a membership row
func (r *GormTeamRepository) AddMember(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

// lockMember loads a membership row under a write lock so the admin count
// taken afterwards cannot be invalidated by a concurrent mutation.
func lockMember(tx *gorm.DB, teamID, targetID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	err := database.LockForUpdate(tx).
		Where("team_id = ? AND user_id = ?", teamID, targetID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// countOtherAdmins counts admins of the team excluding the operation's
// target, holding locks on the counted rows for the rest of the transaction.
func countOtherAdmins(tx *gorm.DB, teamID, excludeUserID uint64) (int64, error) {
	var admins []models.TeamMember
	err := database.LockForUpdate(tx).
		Where("team_id = ? AND role = ? AND user_id <> ?", teamID, models.RoleAdmin, excludeUserID).
		Find(&admins).Error
	if err != nil {
		return 0, err
	}
	return int64(len(admins)), nil
}

// ChangeRole updates a member's role, refusing to demote the last admin
func (r *GormTeamRepository) ChangeRole(teamID, targetID uint64, newRole models.TeamRole) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		member, err := lockMember(tx, teamID, targetID)
		if err != nil {
			return err
		}

		if member.Role == models.RoleAdmin && newRole == models.RoleMember {
			others, err := countOtherAdmins(tx, teamID, targetID)
			if err != nil {
				return err
			}
			if others == 0 {
				return ErrLastAdmin
			}
		}

		return tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, targetID).
			Update("role", newRole).Error
	})
}

// RemoveMember deletes a membership, refusing to remove the last admin
func (r *GormTeamRepository) RemoveMember(teamID, targetID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		member, err := lockMember(tx, teamID, targetID)
		if err != nil {
			return err
		}

		if member.Role == models.RoleAdmin {
			others, err := countOtherAdmins(tx, teamID, targetID)
			if err != nil {
				return err
			}
			if others == 0 {
				return ErrLastAdmin
			}
		}

		return tx.Where("team_id = ? AND user_id = ?", teamID, targetID).
			Delete(&models.TeamMember{}).Error
	})
}

// Leave deletes the caller's own membership. The sole admin may leave only
// when nobody else would be stranded in an adminless team.
func (r *GormTeamRepository) Leave(teamID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		member, err := lockMember(tx, teamID, userID)
		if err != nil {
			return err
		}

		if member.Role == models.RoleAdmin {
			others, err := countOtherAdmins(tx, teamID, userID)
			if err != nil {
				return err
			}
			if others == 0 {
				var total int64
				if err := tx.Model(&models.TeamMember{}).
					Where("team_id = ?", teamID).
					Count(&total).Error; err != nil {
					return err
				}
				if total > 1 {
					return ErrLastAdmin
				}
			}
		}

		return tx.Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&models.TeamMember{}).Error
	})
}

// CreateInvite inserts the invite after validating the address inside one
// transaction, so two concurrent invites for the same email cannot both pass
// the pending-invite check.
func (r *GormTeamRepository) CreateInvite(invite *models.TeamInvite, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", invite.Email).First(&user).Error
		if err == nil {
			var member models.TeamMember
			err = database.LockForUpdate(tx).
				Where("team_id = ? AND user_id = ?", invite.TeamID, user.ID).
				First(&member).Error
			if err == nil {
				return ErrInviteeAlreadyMember
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var pending models.TeamInvite
		err = database.LockForUpdate(tx).
			Where("team_id = ? AND email = ? AND status = ? AND expires_at > ?",
				invite.TeamID, invite.Email, models.InviteStatusPending, now).
			First(&pending).Error
		if err == nil {
			return ErrInvitePendingExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(invite).Error
	})
}

// FindInvite finds an invite by ID within a team
func (r *GormTeamRepository) FindInvite(teamID, inviteID uint64) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	if err := r.db.Where("team_id = ? AND id = ?", teamID, inviteID).
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListInvites lists a team's invites, newest first
func (r *GormTeamRepository) ListInvites(teamID uint64) ([]models.TeamInvite, error) {
	var invites []models.TeamInvite
	if err := r.db.Preload("Inviter").
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// UpdateInviteStatus sets an invite's status
func (r *GormTeamRepository) UpdateInviteStatus(inviteID uint64, status models.InviteStatus) error {
	return r.db.Model(&models.TeamInvite{}).
		Where("id = ?", inviteID).
		Update("status", status).Error
}

// RedeemInvite atomically validates the token, inserts the membership and
// marks the invite accepted. The invite row is locked for the duration so a
// token cannot be redeemed twice under concurrent requests.
func (r *GormTeamRepository) RedeemInvite(token string, user *models.User, now time.Time) (*models.TeamInvite, error) {
	var invite models.TeamInvite

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := database.LockForUpdate(tx).
			Where("token = ?", token).
			First(&invite).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		if invite.IsExpired(now) {
			return ErrInviteExpired
		}
		if invite.Status != models.InviteStatusPending {
			return ErrInviteNotPending
		}
		if !strings.EqualFold(invite.Email, user.Email) {
			return ErrInviteEmailMismatch
		}

		// Redeeming while already a member: mark accepted, keep the
		// existing membership untouched.
		var existing models.TeamMember
		err = tx.Where("team_id = ? AND user_id = ?", invite.TeamID, user.ID).
			First(&existing).Error
		if err == nil {
			invite.Status = models.InviteStatusAccepted
			return tx.Model(&models.TeamInvite{}).
				Where("id = ?", invite.ID).
				Update("status", models.InviteStatusAccepted).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member := &models.TeamMember{
			TeamID:   invite.TeamID,
			UserID:   user.ID,
			Role:     models.RoleMember,
			JoinedAt: now,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		invite.Status = models.InviteStatusAccepted
		return tx.Model(&models.TeamInvite{}).
			Where("id = ?", invite.ID).
			Update("status", models.InviteStatusAccepted).Error
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}
